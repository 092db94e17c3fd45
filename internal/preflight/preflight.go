package preflight

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// Evaluate runs the checks a tree run needs: both input roots readable and
// the output directory writable. An empty path skips its check, which is how
// single-pair runs reuse this with directories instead of roots.
func Evaluate(rawRoot, gradedRoot, outputDir string) []Result {
	var results []Result
	if rawRoot != "" {
		results = append(results, CheckReadableDir("Raw root", rawRoot))
	}
	if gradedRoot != "" {
		results = append(results, CheckReadableDir("Graded root", gradedRoot))
	}
	if outputDir != "" {
		results = append(results, CheckWritableDir("Output directory", outputDir))
	}
	return results
}

// Failures filters results down to the failed checks.
func Failures(results []Result) []Result {
	var failed []Result
	for _, result := range results {
		if !result.Passed {
			failed = append(failed, result)
		}
	}
	return failed
}
