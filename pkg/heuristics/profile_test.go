package heuristics

import (
	"bytes"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/matzehuels/tmdlayout/pkg/errors"
)

func TestDefaultIsValid(t *testing.T) {
	p := Default()
	if err := p.Validate(); err != nil {
		t.Fatalf("Default().Validate() = %v", err)
	}
	if p.Geometry.SlotStep() != 195 {
		t.Errorf("SlotStep() = %v, want 195", p.Geometry.SlotStep())
	}
	if p.Geometry.CollapsedStep() != 155 {
		t.Errorf("CollapsedStep() = %v, want 155", p.Geometry.CollapsedStep())
	}
}

func TestDefaultReturnsFreshCopy(t *testing.T) {
	a := Default()
	a.Naming.FactVocabulary[0] = "changed"
	if b := Default(); b.Naming.FactVocabulary[0] != "fact" {
		t.Error("Default() shares slices between calls")
	}
}

func TestDecode(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		check   func(t *testing.T, p Profile)
		wantErr errors.Code
	}{
		{
			name:  "empty keeps defaults",
			input: "",
			check: func(t *testing.T, p Profile) {
				if p.Name != DefaultName || p.Scoring.StrongFactWeight != 25 {
					t.Errorf("got %+v", p.Scoring)
				}
			},
		},
		{
			name: "partial override",
			input: `name = "wide"
[geometry]
table_width = 240
grid_column_step = 260
`,
			check: func(t *testing.T, p Profile) {
				if p.Name != "wide" || p.Geometry.TableWidth != 240 {
					t.Errorf("override not applied: %+v", p.Geometry)
				}
				if p.Geometry.TableHeight != 180 {
					t.Errorf("TableHeight = %v, want default 180", p.Geometry.TableHeight)
				}
			},
		},
		{
			name: "list replaces default",
			input: `[naming]
calendar_vocabulary = ["kalender"]
`,
			check: func(t *testing.T, p Profile) {
				if !slices.Equal(p.Naming.CalendarVocabulary, []string{"kalender"}) {
					t.Errorf("CalendarVocabulary = %v", p.Naming.CalendarVocabulary)
				}
				if len(p.Naming.FactVocabulary) == 0 {
					t.Error("unrelated list was cleared")
				}
			},
		},
		{
			name:    "unknown key",
			input:   "[geometry]\ntable_widht = 3\n",
			wantErr: errors.ErrCodeInvalidProfile,
		},
		{
			name:    "syntax error",
			input:   "[geometry\n",
			wantErr: errors.ErrCodeInvalidProfile,
		},
		{
			name:    "fails validation",
			input:   "[geometry]\ntable_height = 0\n",
			wantErr: errors.ErrCodeInvalidProfile,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Decode(strings.NewReader(tt.input))
			if tt.wantErr != "" {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Decode() error = %v, want code %s", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Decode() error = %v", err)
			}
			tt.check(t, p)
		})
	}
}

func TestEncodeDecode(t *testing.T) {
	var buf bytes.Buffer
	want := Default()
	want.Scoring.FallbackLimit = 4
	if err := want.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	got, err := Decode(&buf)
	if err != nil {
		t.Fatalf("Decode() error = %v", err)
	}
	if got.Scoring.FallbackLimit != 4 {
		t.Errorf("FallbackLimit = %d, want 4", got.Scoring.FallbackLimit)
	}
	if !slices.Equal(got.Naming.BusinessHierarchy, want.Naming.BusinessHierarchy) {
		t.Errorf("BusinessHierarchy = %v", got.Naming.BusinessHierarchy)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.toml")
	if err := os.WriteFile(path, []byte("[extensions]\nmax_connections = 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if p.Extensions.MaxConnections != 4 {
		t.Errorf("MaxConnections = %d, want 4", p.Extensions.MaxConnections)
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want FILE_NOT_FOUND", err)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(p *Profile)
	}{
		{"negative gap", func(p *Profile) { p.Geometry.ColumnGap = -1 }},
		{"narrow grid", func(p *Profile) { p.Geometry.GridColumnStep = 10 }},
		{"zero grid columns", func(p *Profile) { p.Geometry.GridWideColumns = 0 }},
		{"unsorted tiers", func(p *Profile) {
			p.Scoring.ConnectionTiers = []Tier{{Min: 2, Score: 5}, {Min: 5, Score: 15}}
		}},
		{"zero fact threshold", func(p *Profile) { p.Scoring.ConnectionFactThreshold = 0 }},
		{"zero extension max", func(p *Profile) { p.Extensions.MaxConnections = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Default()
			tt.mutate(&p)
			if err := p.Validate(); !errors.Is(err, errors.ErrCodeInvalidProfile) {
				t.Errorf("Validate() = %v, want INVALID_PROFILE", err)
			}
		})
	}
}
