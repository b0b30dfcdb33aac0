package platform

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/omarchive/pkg/adapters/fs"
)

func TestFindRoot(t *testing.T) {
	// base/
	//   project/         .omarchive.yaml
	//     packs/nested/
	//     archives/      .omarchive/ (catalog)
	//   loose/
	base := t.TempDir()
	project := filepath.Join(base, "project")
	nested := filepath.Join(project, "packs", "nested")
	archives := filepath.Join(project, "archives")
	loose := filepath.Join(base, "loose")

	for _, dir := range []string{nested, filepath.Join(archives, fs.SystemDir), loose} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.WriteFile(filepath.Join(project, ConfigFile), []byte("dependency_dir: archives\n"), 0644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name     string
		start    string
		wantRoot string
		wantErr  bool
	}{
		{name: "Config File", start: project, wantRoot: project},
		{name: "From Nested Pack Dir", start: nested, wantRoot: project},
		{name: "Catalog Dir Is Nearer", start: archives, wantRoot: archives},
		{name: "No Project", start: loose, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := FindRoot(tt.start)
			if (err != nil) != tt.wantErr {
				t.Fatalf("FindRoot() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if filepath.Clean(got) != filepath.Clean(tt.wantRoot) {
				t.Errorf("FindRoot() = %v, want %v", got, tt.wantRoot)
			}
		})
	}

	t.Run("Relative Start", func(t *testing.T) {
		wd, err := os.Getwd()
		if err != nil {
			t.Fatal(err)
		}
		t.Cleanup(func() { _ = os.Chdir(wd) })
		if err := os.Chdir(nested); err != nil {
			t.Fatal(err)
		}

		got, err := FindRoot(".")
		if err != nil {
			t.Fatal(err)
		}
		// TempDir may sit behind a symlink, so compare resolved paths.
		want, _ := filepath.EvalSymlinks(project)
		if resolved, _ := filepath.EvalSymlinks(got); resolved != want {
			t.Errorf("FindRoot(.) = %v, want %v", got, project)
		}
	})
}
