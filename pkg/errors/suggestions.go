package errors

import "fmt"

// SuggestionGenerator generates actionable suggestions based on error category.
type SuggestionGenerator interface {
	Generate(category ErrorCategory, affectedPath string) []string
}

// NewSuggestionGenerator creates a new SuggestionGenerator.
func NewSuggestionGenerator() SuggestionGenerator {
	return &suggestionGenerator{}
}

// suggestionGenerator is the concrete implementation of SuggestionGenerator.
type suggestionGenerator struct{}

// Generate returns actionable suggestions based on the error category and affected path.
func (g *suggestionGenerator) Generate(category ErrorCategory, affectedPath string) []string {
	switch category {
	case CategoryPermission:
		return g.generatePermissionSuggestions(affectedPath)
	case CategoryDiskSpace:
		return g.generateDiskSpaceSuggestions(affectedPath)
	case CategoryPath:
		return g.generatePathSuggestions(affectedPath)
	case CategoryDelete:
		return g.generateDeleteSuggestions(affectedPath)
	case CategoryCopy:
		return g.generateCopySuggestions(affectedPath)
	case CategoryMove:
		return g.generateMoveSuggestions(affectedPath)
	case CategoryCancelled:
		return g.generateCancelledSuggestions(affectedPath)
	case CategoryUnknown:
		return g.generateUnknownSuggestions(affectedPath)
	default:
		return g.generateUnknownSuggestions(affectedPath)
	}
}

func (g *suggestionGenerator) generateCancelledSuggestions(path string) []string {
	suggestions := []string{
		"The operation was cancelled; files copied before the cancel were kept",
	}

	if path != "" {
		suggestions = append(suggestions, "The partially written file was removed: "+path)
	}

	return append(suggestions, "Run the operation again to finish the remaining files")
}

func (g *suggestionGenerator) generateMoveSuggestions(path string) []string {
	suggestions := []string{
		"Source and destination must be on the same volume for a move",
		"Use copy followed by delete to move across volumes",
	}

	if path != "" {
		suggestions = append(suggestions, "Check where this path is mounted: "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generateCopySuggestions(_ string) []string {
	return []string{
		"Check if there is sufficient disk space on the destination",
		"Verify the source and destination media (SD card, USB drive) are functioning correctly",
		"Try the operation again - this may be a transient I/O error",
		"Re-run with --log-level debug to see every entry the engine touched",
	}
}

func (g *suggestionGenerator) generateDeleteSuggestions(path string) []string {
	suggestions := []string{
		"Ensure the directory is empty before attempting to remove it",
		"Check if files or subdirectories are still present",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("List contents with 'ls -la %s'", path))
	}

	suggestions = append(suggestions, "End the path with '/' to delete the directory and everything below it")

	return suggestions
}

func (g *suggestionGenerator) generateDiskSpaceSuggestions(path string) []string {
	suggestions := []string{
		"Free up space on the destination device",
		"Check available space with 'df -h'",
		"Remove unnecessary files or move files to a different location",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify disk usage for the filesystem containing "+path)
	}

	return suggestions
}

func (g *suggestionGenerator) generatePathSuggestions(path string) []string {
	suggestions := []string{
		"Verify the path exists and is spelled correctly",
	}

	if path != "" {
		suggestions = append(suggestions, "Check if the path exists: "+path)
		suggestions = append(suggestions, "Ensure all parent directories exist for "+path)
	} else {
		suggestions = append(suggestions, "Ensure all parent directories exist")
	}

	return suggestions
}

func (g *suggestionGenerator) generatePermissionSuggestions(path string) []string {
	suggestions := []string{
		"Ensure you have read/write permissions for the files and directories",
	}

	if path != "" {
		suggestions = append(suggestions, fmt.Sprintf("Check permissions with 'ls -la %s'", path))
	} else {
		suggestions = append(suggestions, "Check permissions with 'ls -la' on the affected path")
	}

	suggestions = append(suggestions, "Try running with appropriate permissions or as a privileged user")

	return suggestions
}

func (g *suggestionGenerator) generateUnknownSuggestions(path string) []string {
	suggestions := []string{
		"Check the error message for more details",
		"Verify file and directory permissions",
		"Ensure sufficient disk space is available",
	}

	if path != "" {
		suggestions = append(suggestions, "Verify the path is accessible: "+path)
	}

	return suggestions
}
