package session

import (
	"context"
	"errors"
	"log/slog"

	domainauth "github.com/teamdesk/teamdesk/internal/domain/auth"
	"github.com/teamdesk/teamdesk/internal/ports"
)

// Resolver looks up the role record for an identity key, provisioning a
// least-privileged record on first sight. Resolution never fails: downstream
// code has no rendering path for "role unknown", so store errors resolve to
// the user role instead of stranding guards.
type Resolver struct {
	records ports.RecordStore
	logger  *slog.Logger
}

// NewResolver constructs a Resolver over the given record store.
func NewResolver(records ports.RecordStore, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{records: records, logger: logger}
}

// Resolve implements RoleResolver.
func (r *Resolver) Resolve(ctx context.Context, identityKey string) domainauth.Role {
	if identityKey == "" {
		return domainauth.RoleUser
	}

	rec, err := r.records.GetRecord(ctx, identityKey)
	switch {
	case errors.Is(err, ports.ErrRecordNotFound):
		// Never-seen identity: provision with the least privileged role.
		provisioned := ports.RoleRecord{Role: string(domainauth.RoleUser)}
		if cerr := r.records.CreateRecord(ctx, identityKey, provisioned); cerr != nil {
			r.logger.WarnContext(ctx, "provision role record failed",
				"identity", identityKey, "error", cerr)
		}
		return domainauth.RoleUser

	case err != nil:
		r.logger.WarnContext(ctx, "role lookup failed, defaulting to user",
			"identity", identityKey, "error", err)
		return domainauth.RoleUser
	}

	role, ok := domainauth.ParseRole(rec.Role)
	if !ok {
		return domainauth.RoleUser
	}
	return role
}
