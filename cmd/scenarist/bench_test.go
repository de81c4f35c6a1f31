package main_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

// buildBenchBinary compiles scenarist once for a benchmark and returns the
// binary path.
func buildBenchBinary(b *testing.B) string {
	b.Helper()
	dir, err := os.Getwd()
	if err != nil {
		b.Fatalf("getting working directory: %v", err)
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			break
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			b.Fatal("no go.mod found above the working directory")
		}
		dir = parent
	}

	binPath := filepath.Join(b.TempDir(), "scenarist")
	build := exec.Command("go", "build", "-o", binPath, "./cmd/scenarist/")
	build.Dir = dir
	build.Env = append(os.Environ(), "CGO_ENABLED=0")
	if out, err := build.CombinedOutput(); err != nil {
		b.Fatalf("go build failed: %v\n%s", err, out)
	}
	return binPath
}

// benchmarkCommand runs the binary with args once per iteration inside a
// scratch directory.
func benchmarkCommand(b *testing.B, args ...string) {
	binPath := buildBenchBinary(b)
	workDir := b.TempDir()

	b.ResetTimer()
	b.ReportAllocs()
	for b.Loop() {
		cmd := exec.Command(binPath, args...)
		cmd.Dir = workDir
		if out, err := cmd.CombinedOutput(); err != nil {
			b.Fatalf("scenarist %v failed: %v\n%s", args, err, out)
		}
	}
}

func BenchmarkBinaryStartup(b *testing.B) {
	benchmarkCommand(b, "version")
}

// BenchmarkDemoListMode covers registry setup, collection and the list-mode
// short-circuit without running any hook.
func BenchmarkDemoListMode(b *testing.B) {
	benchmarkCommand(b, "demo", "--scenarios=")
}

func BenchmarkDemoFullRun(b *testing.B) {
	benchmarkCommand(b, "--quiet", "demo", "--json", "--log-file", "demo.log")
}
