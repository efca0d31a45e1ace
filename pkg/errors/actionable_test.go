//nolint:varnamelen // Test files use idiomatic short variable names (t, g, etc.)
package errors_test

import (
	"errors"
	"testing"

	. "github.com/onsi/gomega" //nolint:revive // Dot import is idiomatic for Gomega matchers

	pkgerrors "github.com/joe/pathops/pkg/errors"
)

func TestActionableError_Accessors(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	err := pkgerrors.NewActionableError(
		"remove /sdmc/old: directory not empty",
		pkgerrors.CategoryDelete,
		[]string{"End the path with '/'"},
		"/sdmc/old",
	)

	var plain error = err

	g.Expect(plain.Error()).To(Equal("remove /sdmc/old: directory not empty"))
	g.Expect(err.OriginalError()).To(Equal("remove /sdmc/old: directory not empty"))
	g.Expect(err.Category()).To(Equal(pkgerrors.CategoryDelete))
	g.Expect(err.Suggestions()).To(Equal([]string{"End the path with '/'"}))
	g.Expect(err.AffectedPath()).To(Equal("/sdmc/old"))
	g.Expect(errors.Unwrap(err)).To(BeNil())
}

func TestFormatSuggestions(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected string
	}{
		{
			name:     "nil error",
			err:      nil,
			expected: "",
		},
		{
			name:     "plain error",
			err:      errors.New("permission denied"),
			expected: "",
		},
		{
			name:     "no suggestions",
			err:      pkgerrors.NewActionableError("x", pkgerrors.CategoryUnknown, nil, ""),
			expected: "",
		},
		{
			name:     "one suggestion",
			err:      pkgerrors.NewActionableError("x", pkgerrors.CategoryCopy, []string{"Try again"}, ""),
			expected: "  • Try again",
		},
		{
			name: "several suggestions",
			err: pkgerrors.NewActionableError("x", pkgerrors.CategoryMove,
				[]string{"Use the same volume", "Copy then delete"}, "/usb/a"),
			expected: "  • Use the same volume\n  • Copy then delete",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			g := NewWithT(t)

			g.Expect(pkgerrors.FormatSuggestions(tt.err)).To(Equal(tt.expected))
		})
	}
}

func TestErrorCategory_Distinct(t *testing.T) {
	t.Parallel()
	g := NewWithT(t)

	categories := []pkgerrors.ErrorCategory{
		pkgerrors.CategoryCancelled,
		pkgerrors.CategoryCopy,
		pkgerrors.CategoryDelete,
		pkgerrors.CategoryDiskSpace,
		pkgerrors.CategoryMove,
		pkgerrors.CategoryPath,
		pkgerrors.CategoryPermission,
		pkgerrors.CategoryUnknown,
	}

	seen := make(map[pkgerrors.ErrorCategory]bool, len(categories))
	for _, category := range categories {
		g.Expect(category).NotTo(BeEmpty())
		g.Expect(seen).NotTo(HaveKey(category))
		seen[category] = true
	}
}
