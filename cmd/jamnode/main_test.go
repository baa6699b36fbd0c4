package main

import "testing"

func TestRunPVMExec(t *testing.T) {
	if code := run([]string{"pvm-exec", "deadbeef"}); code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}

func TestRunPVMExecBadHex(t *testing.T) {
	if code := run([]string{"pvm-exec", "not-hex"}); code != 1 {
		t.Fatalf("code = %d, want 1", code)
	}
}

func TestRunServeRequiresWatchDir(t *testing.T) {
	if code := run([]string{"serve"}); code != 3 {
		t.Fatalf("code = %d, want 3", code)
	}
}

func TestRunServeOnceOverEmptyDir(t *testing.T) {
	dir := t.TempDir()
	if code := run([]string{"serve", "--watch-dir", dir, "--once"}); code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}

func TestRunServeMissingWatchDir(t *testing.T) {
	if code := run([]string{"serve", "--watch-dir", "/nonexistent/dir", "--once"}); code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	if code := run([]string{"bogus"}); code != 3 {
		t.Fatalf("code = %d, want 3", code)
	}
}

func TestRunNoArgs(t *testing.T) {
	if code := run(nil); code != 3 {
		t.Fatalf("code = %d, want 3", code)
	}
}

func TestRunShowStateRoot(t *testing.T) {
	if code := run([]string{"show-state-root"}); code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}

func TestRunExportState(t *testing.T) {
	if code := run([]string{"export-state"}); code != 0 {
		t.Fatalf("code = %d, want 0", code)
	}
}

func TestRunImportBlockMissingFile(t *testing.T) {
	if code := run([]string{"import-block", "/nonexistent/path/to/block.bin"}); code != 2 {
		t.Fatalf("code = %d, want 2", code)
	}
}

func TestRunAuthorBlockReportsUnsupported(t *testing.T) {
	if code := run([]string{"author-block"}); code != 3 {
		t.Fatalf("code = %d, want 3", code)
	}
}
