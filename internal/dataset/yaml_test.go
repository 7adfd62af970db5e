package dataset

import (
	"os"
	"path/filepath"
	"testing"
)

const testYAML = `
bounds:
  latmin: 37.40
  latmax: 37.60
  lonmin: 126.90
  lonmax: 127.20
grid-size: 30
stops:
  - id: s1
    name: A
    lat: 37.50
    lon: 127.00
    kind: bus
  - id: s2
    name: B
    lat: 37.51
    lon: 127.01
    kind: bus
routes:
  - id: r1
    mode: bus
    label: "Bus 1"
    stops: [s1, s2]
timetables:
  - route: r1
    trips:
      - id: t1
        arrival: [0, 300]
        departure: [0, 300]
transfers:
  - from: s1
    to: s2
    walk-seconds: 120
vehicles:
  - id: v1
    lat: 37.505
    lon: 127.005
    mode: bike
`

func TestLoadFileParsesValidDataset(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.yaml")
	if err := os.WriteFile(path, []byte(testYAML), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	ds, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile() error = %v", err)
	}
	if len(ds.Stops) != 2 {
		t.Fatalf("len(ds.Stops) = %d, want 2", len(ds.Stops))
	}
	if len(ds.Routes) != 1 {
		t.Fatalf("len(ds.Routes) = %d, want 1", len(ds.Routes))
	}
	if len(ds.Vehicles) != 1 {
		t.Fatalf("len(ds.Vehicles) = %d, want 1", len(ds.Vehicles))
	}
	trs := ds.Transfers["s1"]
	if len(trs) != 1 || trs[0].To != "s2" || trs[0].WalkSeconds != 120 {
		t.Fatalf("Transfers[s1] = %+v, want one transfer to s2 of 120s", trs)
	}
}

func TestLoadFileRejectsMissingFile(t *testing.T) {
	if _, err := LoadFile("/nonexistent/dataset.yaml"); err == nil {
		t.Fatalf("LoadFile() error = nil, want a read error")
	}
}

func TestLoadFileRejectsInvariantViolation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "dataset.yaml")
	bad := `
bounds:
  latmin: 37.40
  latmax: 37.60
  lonmin: 126.90
  lonmax: 127.20
grid-size: 30
stops:
  - id: s1
    name: A
    lat: 37.50
    lon: 127.00
    kind: bus
routes:
  - id: r1
    mode: bus
    label: "Bus 1"
    stops: [s1, ghost]
`
	if err := os.WriteFile(path, []byte(bad), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatalf("LoadFile() error = nil, want ErrDatasetInvariant (dangling stop)")
	}
}
