package main

import (
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
)

const cliBasePack = `
archive:
  name: Base
  standardTypes: true
entities:
  - name: Referenceable
    attributes:
      - {name: qualifiedName, type: string, unique: true}
`

const cliAppPack = `
archive:
  name: App
entities:
  - name: Host
    superType: Referenceable
instances:
  entities:
    - type: Host
      qualifiedName: host::one
`

// buildBinary builds the omarchive binary into dir and returns its path.
func buildBinary(t *testing.T, dir string) string {
	t.Helper()
	bin := filepath.Join(dir, "omarchive.exe")
	build := exec.Command("go", "build", "-o", bin, ".")
	if out, err := build.CombinedOutput(); err != nil {
		t.Fatalf("Failed to build omarchive: %v\n%s", err, string(out))
	}
	return bin
}

func runCmd(t *testing.T, dir, bin string, args ...string) string {
	t.Helper()
	cmd := exec.Command(bin, args...)
	cmd.Dir = dir
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("omarchive %s failed: %v\n%s", strings.Join(args, " "), err, string(out))
	}
	return string(out)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestCLI(t *testing.T) {
	if testing.Short() {
		t.Skip("builds the binary")
	}
	bin := buildBinary(t, t.TempDir())

	project := t.TempDir()
	writeFile(t, filepath.Join(project, "deps", "base.yaml"), cliBasePack)
	writeFile(t, filepath.Join(project, "packs", "app.yaml"), cliAppPack)
	writeFile(t, filepath.Join(project, ".omarchive.yaml"), "dependency_dir: archives\n")
	if err := os.MkdirAll(filepath.Join(project, "archives"), 0755); err != nil {
		t.Fatal(err)
	}

	t.Run("Version", func(t *testing.T) {
		out := runCmd(t, project, bin, "version")
		if !strings.HasPrefix(out, "omarchive version ") {
			t.Errorf("unexpected version output: %q", out)
		}
	})

	t.Run("Build Dependency", func(t *testing.T) {
		out := runCmd(t, project, bin, "build", "deps/base.yaml", "--output", "archives/Base.json")
		if !strings.Contains(out, "Generated") {
			t.Errorf("unexpected output: %q", out)
		}
		if _, err := os.Stat(filepath.Join(project, "archives", "Base.json")); err != nil {
			t.Fatalf("archive not written: %v", err)
		}
		if _, err := os.Stat(filepath.Join(project, "deps", "BaseGUIDMap.json")); err != nil {
			t.Fatalf("guid map not written: %v", err)
		}
	})

	t.Run("Build With Configured Dependencies", func(t *testing.T) {
		// dependency_dir comes from the config file, relative to it.
		sub := filepath.Join(project, "packs")
		runCmd(t, sub, bin, "build", "app.yaml")

		out := runCmd(t, project, bin, "inspect", "--json", "packs/App.json")
		var report struct {
			Name      string   `json:"name"`
			DependsOn []string `json:"dependsOn"`
			TypeDefs  int      `json:"typeDefs"`
			Entities  int      `json:"entities"`
		}
		if err := json.Unmarshal([]byte(out), &report); err != nil {
			t.Fatalf("invalid report %q: %v", out, err)
		}
		if report.Name != "App" || report.TypeDefs != 1 || report.Entities != 1 {
			t.Errorf("unexpected report: %+v", report)
		}
		if len(report.DependsOn) != 1 {
			t.Errorf("expected App to depend on Base, got %v", report.DependsOn)
		}
	})

	t.Run("Inspect Directory", func(t *testing.T) {
		out := runCmd(t, project, bin, "inspect", "archives")
		if !strings.Contains(out, "Base") {
			t.Errorf("expected Base in listing, got:\n%s", out)
		}
	})

	t.Run("GUIDs", func(t *testing.T) {
		out := runCmd(t, project, bin, "guids", "packs/AppGUIDMap.json")
		for _, id := range []string{"archive:App", "type:Host", "entity:host::one"} {
			if !strings.Contains(out, id) {
				t.Errorf("expected %s in:\n%s", id, out)
			}
		}
	})

	t.Run("Build Failure", func(t *testing.T) {
		cmd := exec.Command(bin, "build", "missing.yaml")
		cmd.Dir = project
		if out, err := cmd.CombinedOutput(); err == nil {
			t.Errorf("expected failure, got:\n%s", out)
		}
	})
}
