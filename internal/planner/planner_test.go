package planner

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"golang.org/x/text/unicode/norm"

	"stampname/internal/normalizer"
	"stampname/internal/scanner"
)

var fixedTime = time.Date(2024, time.March, 15, 9, 30, 45, 0, time.UTC)

// fixedSource reports fixedTime for every path.
func fixedSource() TimeSource {
	return TimeSourceFunc(func(string) (time.Time, error) {
		return fixedTime, nil
	})
}

func fileEntry(dir, name string) scanner.CandidateEntry {
	return scanner.CandidateEntry{
		OriginalPath:   filepath.Join(dir, name),
		Name:           name,
		NormalizedName: normalizer.NormalizeName(name),
	}
}

func TestPlanAddsCreationStamp(t *testing.T) {
	p := New(fixedSource()).WithLocation(time.UTC)

	plan, err := p.Plan(fileEntry("/tmp/x", "a.txt"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if plan.IsSkip() {
		t.Fatal("expected a rename plan")
	}

	want := filepath.Join("/tmp/x", "20240315_093045_a.txt")
	if plan.TargetPath != want {
		t.Errorf("TargetPath = %q, want %q", plan.TargetPath, want)
	}
	if filepath.Dir(plan.TargetPath) != filepath.Dir(plan.SourcePath) {
		t.Error("target must stay in the source directory")
	}
}

func TestPlanConvertsToPlannerLocation(t *testing.T) {
	tokyo := time.FixedZone("JST", 9*60*60)
	p := New(fixedSource()).WithLocation(tokyo)

	plan, err := p.Plan(fileEntry("/tmp/x", "a.txt"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got, want := filepath.Base(plan.TargetPath), "20240315_183045_a.txt"; got != want {
		t.Errorf("target name = %q, want %q", got, want)
	}
}

func TestPlanSkips(t *testing.T) {
	calls := 0
	p := New(TimeSourceFunc(func(string) (time.Time, error) {
		calls++
		return fixedTime, nil
	}))

	tests := []struct {
		name   string
		entry  scanner.CandidateEntry
		reason SkipReason
	}{
		{
			name:   "directory",
			entry:  scanner.CandidateEntry{OriginalPath: "/tmp/x/sub", Name: "sub", NormalizedName: "sub", IsDirectory: true},
			reason: SkipDirectory,
		},
		{
			name:   "already stamped",
			entry:  fileEntry("/tmp/x", "20230101_120000_c.txt"),
			reason: SkipAlreadyStamped,
		},
		{
			name:   "fullwidth digits stamp",
			entry:  fileEntry("/tmp/x", "２０２３０１０１_１２００００_c.txt"),
			reason: SkipAlreadyStamped,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			plan, err := p.Plan(tt.entry)
			if err != nil {
				t.Fatalf("Plan() error = %v", err)
			}
			if !plan.IsSkip() {
				t.Errorf("expected skip, got target %q", plan.TargetPath)
			}
			if plan.Reason != tt.reason {
				t.Errorf("Reason = %s, want %s", plan.Reason, tt.reason)
			}
		})
	}

	if calls != 0 {
		t.Errorf("skipped entries must not read metadata, got %d reads", calls)
	}
}

func TestPlanRecordsExistingStamp(t *testing.T) {
	p := New(fixedSource()).WithLocation(time.UTC)

	plan, err := p.Plan(fileEntry("/tmp/x", "20230101_120000_c.txt"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	want := time.Date(2023, time.January, 1, 12, 0, 0, 0, time.UTC)
	if !plan.StampedAt.Equal(want) {
		t.Errorf("StampedAt = %v, want %v", plan.StampedAt, want)
	}

	plan, err = p.Plan(fileEntry("/tmp/x", "99999999_999999_c.txt"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if !plan.IsSkip() || !plan.StampedAt.IsZero() {
		t.Errorf("impossible stamp should still skip with zero StampedAt, got %+v", plan)
	}
}

func TestPlanMetadataFailure(t *testing.T) {
	cause := errors.New("permission denied")
	p := New(TimeSourceFunc(func(string) (time.Time, error) {
		return time.Time{}, cause
	}))

	_, err := p.Plan(fileEntry("/tmp/x", "a.txt"))

	var planErr *PlanError
	if !errors.As(err, &planErr) {
		t.Fatalf("expected *PlanError, got %v", err)
	}
	if planErr.Type != MetadataReadError {
		t.Errorf("Type = %s, want %s", planErr.Type, MetadataReadError)
	}
	if !errors.Is(err, cause) {
		t.Error("PlanError should unwrap to the metadata error")
	}
}

func TestPlanRejectsNameFoldingToSeparator(t *testing.T) {
	p := New(fixedSource())

	// U+FF0F FULLWIDTH SOLIDUS normalizes to "/".
	_, err := p.Plan(fileEntry("/tmp/x", "a／b.txt"))

	var planErr *PlanError
	if !errors.As(err, &planErr) || planErr.Type != InvalidName {
		t.Fatalf("expected INVALID_NAME, got %v", err)
	}
}

func TestPlanUsesNormalizedName(t *testing.T) {
	p := New(fixedSource()).WithLocation(time.UTC)

	plan, err := p.Plan(fileEntry("/tmp/x", "ﬁle.txt"))
	if err != nil {
		t.Fatalf("Plan() error = %v", err)
	}
	if got, want := filepath.Base(plan.TargetPath), "20240315_093045_file.txt"; got != want {
		t.Errorf("target name = %q, want %q", got, want)
	}
}

// genAccentedWord builds a lower-case word where every letter carries an acute accent.
func genAccentedWord() gopter.Gen {
	return gen.SliceOf(gen.RuneRange('a', 'z')).SuchThat(func(r []rune) bool {
		return len(r) > 0
	}).Map(func(runes []rune) string {
		out := make([]rune, 0, len(runes)*2)
		for _, r := range runes {
			out = append(out, r, '\u0301')
		}
		return string(out)
	})
}

func TestNormalizationEquivalenceProperty(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 100

	properties := gopter.NewProperties(parameters)
	p := New(fixedSource()).WithLocation(time.UTC)

	properties.Property("Composed and decomposed names plan the same target", prop.ForAll(
		func(word string) bool {
			composed := fileEntry("/data", norm.NFC.String(word)+".txt")
			decomposed := fileEntry("/data", norm.NFD.String(word)+".txt")

			a, err := p.Plan(composed)
			if err != nil {
				return false
			}
			b, err := p.Plan(decomposed)
			if err != nil {
				return false
			}
			return a.TargetPath == b.TargetPath
		},
		genAccentedWord(),
	))

	properties.Property("A planned target is never planned again", prop.ForAll(
		func(word string) bool {
			first, err := p.Plan(fileEntry("/data", word+".txt"))
			if err != nil || first.IsSkip() {
				return false
			}
			second, err := p.Plan(fileEntry("/data", filepath.Base(first.TargetPath)))
			if err != nil {
				return false
			}
			return second.IsSkip() && second.Reason == SkipAlreadyStamped
		},
		genAccentedWord(),
	))

	properties.TestingRun(t)
}
