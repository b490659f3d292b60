package aggregator

import (
	"github.com/go-git/go-git/v5"
	"github.com/google/uuid"

	"github.com/sieve-report/sieve/internal/model"
)

// StampRunMeta fills in the run id and, when the analyzed source tree is
// a git repository, its HEAD commit and branch. Repository metadata is
// best-effort: a missing repo leaves the fields empty.
func StampRunMeta(stats *model.RunStatistics, sourceDir string) {
	stats.RunID = uuid.New().String()

	if sourceDir == "" {
		return
	}
	repo, err := git.PlainOpenWithOptions(sourceDir, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return
	}
	head, err := repo.Head()
	if err != nil {
		return
	}
	stats.Commit = head.Hash().String()
	if head.Name().IsBranch() {
		stats.Branch = head.Name().Short()
	}
}
