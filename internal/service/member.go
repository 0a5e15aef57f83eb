package service

import (
	"context"
	"net/url"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/teamdesk/teamdesk/internal/core"
	"github.com/teamdesk/teamdesk/internal/domain/model"
)

// MemberServiceOptions groups dependencies for MemberService.
type MemberServiceOptions struct {
	Members core.MemberRepository
}

// MemberService serves the public team roster.
type MemberService struct {
	members core.MemberRepository
}

// NewMemberService constructs a new MemberService.
func NewMemberService(opts MemberServiceOptions) *MemberService {
	return &MemberService{members: opts.Members}
}

// Create creates a roster member.
func (s *MemberService) Create(ctx context.Context, req *model.CreateMemberRequest) (*model.Member, error) {
	member, err := s.members.Create(ctx, req)
	if err != nil {
		return nil, err
	}
	decorate(member)
	return member, nil
}

// Update applies a partial update.
func (s *MemberService) Update(ctx context.Context, id string, req *model.UpdateMemberRequest) (*model.Member, error) {
	member, err := s.members.Update(ctx, id, req)
	if err != nil {
		return nil, err
	}
	decorate(member)
	return member, nil
}

// Delete deletes a member by ID.
func (s *MemberService) Delete(ctx context.Context, id string) (bool, error) {
	return s.members.Delete(ctx, id)
}

// GetByID retrieves a member by ID.
func (s *MemberService) GetByID(ctx context.Context, id string) (*model.Member, error) {
	member, err := s.members.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	decorate(member)
	return member, nil
}

// List returns the roster in display order.
func (s *MemberService) List(ctx context.Context) ([]*model.Member, error) {
	members, err := s.members.List(ctx)
	if err != nil {
		return nil, err
	}
	for _, m := range members {
		decorate(m)
	}
	return members, nil
}

func decorate(m *model.Member) {
	if m != nil {
		m.WebsiteDomain = displayDomain(m.WebsiteURL)
	}
}

// displayDomain derives the registrable domain of a personal website for
// display ("https://blog.alice.dev/posts" -> "alice.dev"). Unparseable or
// non-registrable hosts yield "".
func displayDomain(websiteURL string) string {
	if websiteURL == "" {
		return ""
	}
	u, err := url.Parse(websiteURL)
	if err != nil {
		return ""
	}
	host := strings.ToLower(u.Hostname())
	if host == "" {
		return ""
	}
	domain, err := publicsuffix.EffectiveTLDPlusOne(host)
	if err != nil {
		return ""
	}
	return domain
}
