package usecase

import (
	"context"
	"os"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"

	"github.com/laurentbartholdi/ReleaseTools/pkg/domain/types"
)

// resolveToken finds the GitHub API token: the --token flag wins, then the
// github.token value of the source repository's git config, then the token
// file in the user's home directory.
func (p *pipeline) resolveToken(ctx context.Context) (string, error) {
	if p.cfg.Token != "" {
		return p.cfg.Token, nil
	}

	fromConfig, err := p.git.ConfigGet(ctx, p.cfg.SrcDir, "github.token")
	if err != nil {
		return "", err
	}
	if fromConfig != "" {
		return fromConfig, nil
	}

	home, err := os.UserHomeDir()
	if err == nil {
		data, readErr := os.ReadFile(filepath.Join(home, types.TokenFile))
		if readErr == nil {
			if token := strings.TrimSpace(string(data)); token != "" {
				return token, nil
			}
		}
	}

	return "", goerr.New("no GitHub token found; pass --token, set github.token in git config, or create the token file",
		goerr.V("token_file", "~/"+types.TokenFile),
		goerr.T(types.ErrTagPrecondition))
}
