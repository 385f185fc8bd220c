package magetasks

// TestAll runs all tests.
func TestAll() error {
	return goTest("Tests", "All tests passed", "-v", "./...")
}

// TestCoverage runs tests with coverage and prints the per-function report.
func TestCoverage() error {
	if err := goTest("Test Coverage", "Coverage report generated", "-coverprofile=coverage.out", "./..."); err != nil {
		return err
	}
	if err := Run("Coverage", "go", "tool", "cover", "-func=coverage.out"); err != nil {
		PrintWarning("coverage report unavailable")
	}
	return nil
}

// TestRace runs tests with the race detector.
func TestRace() error {
	return goTest("Race Detector", "No race conditions detected", "-race", "./...")
}

func goTest(section, success string, args ...string) error {
	PrintH2Header(section)
	if err := Run(section, "go", append([]string{"test"}, args...)...); err != nil {
		PrintError(section + " failed")
		return err
	}
	PrintSuccess(success)
	return nil
}
