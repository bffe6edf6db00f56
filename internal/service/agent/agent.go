package agent

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	domainagent "github.com/alanyang/leadroute/internal/domain/agent"
	"github.com/alanyang/leadroute/internal/domain/event"
	portagent "github.com/alanyang/leadroute/internal/port/agent"
	portnotifier "github.com/alanyang/leadroute/internal/port/notifier"
)

var (
	ErrEmailTaken   = errors.New("agent with this email already exists")
	ErrInvalidPhone = errors.New("phone number must include country code (e.g. +1)")
	ErrWeakPassword = errors.New("password must be at least 6 characters")
)

// Service manages the owner's agent roster. Nothing here touches
// distributions; deactivating an agent only removes it from future
// eligibility snapshots.
type Service struct {
	repo     portagent.Repository
	notifier portnotifier.Broadcaster
}

func NewService(repo portagent.Repository, notifier portnotifier.Broadcaster) *Service {
	return &Service{repo: repo, notifier: notifier}
}

type CreateParams struct {
	Name     string
	Email    string
	Phone    string
	Password string
	Status   domainagent.Status
}

func (s *Service) Create(ctx context.Context, ownerID uuid.UUID, p CreateParams) (domainagent.Agent, error) {
	if !strings.Contains(p.Phone, "+") {
		return domainagent.Agent{}, ErrInvalidPhone
	}
	if len(p.Password) < 6 {
		return domainagent.Agent{}, ErrWeakPassword
	}
	if _, err := s.repo.GetByEmail(ctx, ownerID, p.Email); err == nil {
		return domainagent.Agent{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(p.Password), bcrypt.DefaultCost)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("hashing password: %w", err)
	}

	created, err := s.repo.Create(ctx, domainagent.New(ownerID, p.Name, p.Email, p.Phone, string(hash), p.Status))
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("create agent: %w", err)
	}

	s.notifier.Broadcast(event.New(event.TypeAgentCreated, ownerID, created.ID))
	return created, nil
}

func (s *Service) GetByID(ctx context.Context, ownerID, id uuid.UUID) (domainagent.Agent, error) {
	a, err := s.repo.GetByID(ctx, ownerID, id)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("get agent: %w", err)
	}
	return a, nil
}

func (s *Service) List(ctx context.Context, ownerID uuid.UUID) ([]domainagent.Agent, error) {
	agents, err := s.repo.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return agents, nil
}

type UpdateParams struct {
	Name     *string
	Email    *string
	Phone    *string
	Status   *domainagent.Status
	Password *string
}

func (s *Service) Update(ctx context.Context, ownerID, id uuid.UUID, p UpdateParams) (domainagent.Agent, error) {
	if p.Phone != nil && !strings.Contains(*p.Phone, "+") {
		return domainagent.Agent{}, ErrInvalidPhone
	}

	fields := domainagent.UpdateFields{
		Name:   p.Name,
		Email:  p.Email,
		Phone:  p.Phone,
		Status: p.Status,
	}
	if p.Password != nil {
		if len(*p.Password) < 6 {
			return domainagent.Agent{}, ErrWeakPassword
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(*p.Password), bcrypt.DefaultCost)
		if err != nil {
			return domainagent.Agent{}, fmt.Errorf("hashing password: %w", err)
		}
		h := string(hash)
		fields.PasswordHash = &h
	}

	updated, err := s.repo.Update(ctx, ownerID, id, fields)
	if err != nil {
		return domainagent.Agent{}, fmt.Errorf("update agent: %w", err)
	}

	s.notifier.Broadcast(event.New(event.TypeAgentUpdated, ownerID, updated.ID))
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, ownerID, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}

	s.notifier.Broadcast(event.New(event.TypeAgentDeleted, ownerID, id))
	slog.InfoContext(ctx, "agent deleted", "agent_id", id, "owner_id", ownerID)
	return nil
}
