package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"worker-recsync/entities"
	"worker-recsync/repository"
)

// CredentialContext is a delegated access token plus the identity it
// acts as. It belongs to one adapter call and is discarded afterwards.
type CredentialContext struct {
	Token string
	Email string
}

type credentialStrategy struct {
	name    string
	resolve func(ctx context.Context) (*CredentialContext, error)
}

// CredentialResolver produces a usable delegated-access context for a
// tenant, trying an ordered list of strategies. The first success wins
// and no further strategies are attempted.
type CredentialResolver struct {
	auth      WorkspaceAuth
	workspace WorkspaceAPI
	repo      repository.MeetingRepository
}

func NewCredentialResolver(auth WorkspaceAuth, workspace WorkspaceAPI, repo repository.MeetingRepository) *CredentialResolver {
	return &CredentialResolver{
		auth:      auth,
		workspace: workspace,
		repo:      repo,
	}
}

// Resolve tries, in order: impersonating the tenant admin, impersonating
// the hinted user, impersonating a file owner who is a known user, and
// finally the standing tenant-wide token. userHint and fileID may be
// empty, their strategies are skipped.
func (r *CredentialResolver) Resolve(ctx context.Context, tenant *entities.Tenant, userHint, fileID string) (*CredentialContext, error) {
	strategies := []credentialStrategy{
		{
			name: "admin impersonation",
			resolve: func(ctx context.Context) (*CredentialContext, error) {
				token, err := r.auth.DelegatedToken(ctx, tenant.AdminEmail)
				if err != nil {
					return nil, err
				}
				return &CredentialContext{Token: token, Email: tenant.AdminEmail}, nil
			},
		},
	}

	if userHint != "" {
		strategies = append(strategies, credentialStrategy{
			name: "hinted user impersonation",
			resolve: func(ctx context.Context) (*CredentialContext, error) {
				token, err := r.auth.DelegatedToken(ctx, userHint)
				if err != nil {
					return nil, err
				}
				return &CredentialContext{Token: token, Email: userHint}, nil
			},
		})
	}
	if fileID != "" {
		strategies = append(strategies, credentialStrategy{
			name: "file owner impersonation",
			resolve: func(ctx context.Context) (*CredentialContext, error) {
				return r.resolveAsFileOwner(ctx, tenant, fileID)
			},
		})
	}

	strategies = append(strategies, credentialStrategy{
		name: "standing tenant token",
		resolve: func(ctx context.Context) (*CredentialContext, error) {
			token, err := r.auth.StandingToken(ctx)
			if err != nil {
				return nil, err
			}
			return &CredentialContext{Token: token}, nil
		},
	})

	var lastErr error
	for _, strategy := range strategies {
		creds, err := strategy.resolve(ctx)
		if err != nil {
			zerolog.Ctx(ctx).Info().Err(err).Str("strategy", strategy.name).Msg("credential strategy failed, trying next")
			lastErr = err
			continue
		}
		return creds, nil
	}

	return nil, fmt.Errorf("%w: %v", ErrAuthUnavailable, lastErr)
}

// resolveAsFileOwner looks up the file's recorded owners with the
// standing token and impersonates the first owner who is a known tenant
// user.
func (r *CredentialResolver) resolveAsFileOwner(ctx context.Context, tenant *entities.Tenant, fileID string) (*CredentialContext, error) {
	token, err := r.auth.StandingToken(ctx)
	if err != nil {
		return nil, err
	}

	owners, err := r.workspace.GetFileOwners(ctx, token, fileID)
	if err != nil {
		return nil, err
	}

	for _, owner := range owners {
		if _, err := r.repo.FindUserByEmailLocalPart(ctx, tenant.ID, EmailLocalPart(owner, tenant.Domain)); err != nil {
			continue
		}

		delegated, err := r.auth.DelegatedToken(ctx, owner)
		if err != nil {
			return nil, err
		}
		return &CredentialContext{Token: delegated, Email: owner}, nil
	}

	return nil, fmt.Errorf("no file owner of %s is a known user", fileID)
}

// EmailLocalPart strips the tenant domain from an address, leaving the
// part the directory matches on.
func EmailLocalPart(email, domain string) string {
	return strings.TrimSuffix(strings.TrimSuffix(email, domain), "@")
}
