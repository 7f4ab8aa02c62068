package adapters

import (
	"bytes"
	"context"
	"os/exec"
	"strings"

	"github.com/ZanzyTHEbar/errbuilder-go"

	"fomod-packager/internal/ports"
	"fomod-packager/internal/shared"
)

type GitRevisionAdapter struct {
	Git string
}

func NewGitRevisionAdapter() GitRevisionAdapter {
	return GitRevisionAdapter{Git: "git"}
}

func (a GitRevisionAdapter) ShortRevision(ctx context.Context, repoDir string, ref string, length int) (string, error) {
	if strings.TrimSpace(ref) == "" {
		ref = "HEAD"
	}
	args := []string{"rev-parse", "--verify", ref + "^{commit}"}
	if strings.TrimSpace(repoDir) != "" {
		args = append([]string{"-C", repoDir}, args...)
	}
	cmd := exec.CommandContext(ctx, a.Git, args...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr
	output, err := cmd.Output()
	if err != nil {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeFailedPrecondition).
			WithMsg("failed to resolve source revision " + ref).
			WithCause(shared.CommandError(stderr.Bytes(), err))
	}
	sha := strings.TrimSpace(string(output))
	if !isHex(sha) {
		return "", errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("unexpected revision output: " + sha)
	}
	if length > 0 && len(sha) > length {
		sha = sha[:length]
	}
	return sha, nil
}

func isHex(value string) bool {
	if value == "" {
		return false
	}
	for _, r := range value {
		switch {
		case r >= '0' && r <= '9', r >= 'a' && r <= 'f', r >= 'A' && r <= 'F':
		default:
			return false
		}
	}
	return true
}

var _ ports.RevisionPort = GitRevisionAdapter{}
