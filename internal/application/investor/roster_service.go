// Package investor holds the use cases around the investor roster.
package investor

import (
	"context"
	"errors"
	"slices"
	"time"

	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/investor"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/domain/shared"
	"github.com/ngochangjelly/rental-management-platform-sub000/internal/infrastructure/logger"
	"go.uber.org/zap"
)

// RosterService manages investors and their property shares
type RosterService struct {
	repo           investor.InvestorRepository
	eventPublisher shared.EventPublisher
	logger         *zap.Logger
	now            func() time.Time
}

// NewRosterService creates a new RosterService
func NewRosterService(repo investor.InvestorRepository, log *zap.Logger) *RosterService {
	if log == nil {
		log = zap.NewNop()
	}
	return &RosterService{
		repo:   repo,
		logger: log,
		now:    time.Now,
	}
}

// SetEventPublisher sets the publisher that receives domain events after a successful save
func (s *RosterService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// maxIDAttempts bounds the retries when a concurrent create takes the computed id
const maxIDAttempts = 5

// Create adds a new investor with a generated id
func (s *RosterService) Create(ctx context.Context, req CreateInvestorRequest) (*InvestorResponse, error) {
	inv, err := s.create(ctx, func(id string) (*investor.Investor, error) {
		inv, err := investor.NewInvestor(id, req.toProfile())
		if err != nil {
			return nil, err
		}
		for _, share := range req.Properties {
			if err := inv.AttachProperty(share.PropertyID, share.Percentage); err != nil {
				return nil, err
			}
		}
		return inv, nil
	})
	if err != nil {
		return nil, err
	}

	s.log(ctx).Info("Investor created", zap.String("investor_id", inv.InvestorID))
	resp := ToInvestorResponse(inv)
	return &resp, nil
}

// Get returns an investor by id
func (s *RosterService) Get(ctx context.Context, investorID string) (*InvestorResponse, error) {
	inv, err := s.repo.FindByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	resp := ToInvestorResponse(inv)
	return &resp, nil
}

// List returns a page of investors
func (s *RosterService) List(ctx context.Context, filter ListFilter) (shared.Paginated[InvestorResponse], error) {
	f := investor.Filter{
		Filter: shared.Filter{
			Page:     filter.Page,
			PageSize: filter.PageSize,
			OrderBy:  filter.OrderBy,
			OrderDir: filter.OrderDir,
			Search:   filter.Search,
		},
		PropertyID: filter.PropertyID,
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 {
		f.PageSize = 20
	}

	investors, total, err := s.repo.FindAll(ctx, f)
	if err != nil {
		return shared.Paginated[InvestorResponse]{}, err
	}
	return shared.NewPaginated(ToInvestorResponses(investors), total, f.Page, f.PageSize), nil
}

// ListByProperty returns the investors holding a share of a property, oldest first
func (s *RosterService) ListByProperty(ctx context.Context, propertyID string) ([]InvestorResponse, error) {
	investors, err := s.repo.FindByProperty(ctx, propertyID)
	if err != nil {
		return nil, err
	}
	return ToInvestorResponses(investors), nil
}

// UpdateProfile replaces an investor's contact details
func (s *RosterService) UpdateProfile(ctx context.Context, investorID string, req ProfileRequest) (*InvestorResponse, error) {
	inv, err := s.repo.FindByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateProfile(req.toProfile()); err != nil {
		return nil, err
	}
	if err := s.save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvestorResponse(inv)
	return &resp, nil
}

// Delete removes an investor and all its shares
func (s *RosterService) Delete(ctx context.Context, investorID string) error {
	inv, err := s.repo.FindByID(ctx, investorID)
	if err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, investorID); err != nil {
		return err
	}
	s.publish(ctx, investor.NewInvestorDeletedEvent(inv))
	s.log(ctx).Info("Investor deleted", zap.String("investor_id", investorID))
	return nil
}

// AddToProperty attaches a candidate to a property.
// A matching investor (same username, else same case-folded name) gains the share;
// otherwise a new investor is created with the next numeric id.
func (s *RosterService) AddToProperty(ctx context.Context, propertyID string, req AddToPropertyRequest) (*AddToPropertyResponse, error) {
	if err := investor.ValidatePercentage(req.Percentage); err != nil {
		return nil, err
	}

	all, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	inv := investor.FindMatch(all, req.Name, req.Username)
	created := inv == nil
	if created {
		inv, err = s.create(ctx, func(id string) (*investor.Investor, error) {
			inv, err := investor.NewInvestor(id, req.toProfile())
			if err != nil {
				return nil, err
			}
			if err := inv.AttachProperty(propertyID, req.Percentage); err != nil {
				return nil, err
			}
			return inv, nil
		})
		if err != nil {
			return nil, err
		}
	} else {
		if err := inv.AttachProperty(propertyID, req.Percentage); err != nil {
			return nil, err
		}
		if err := s.save(ctx, inv); err != nil {
			return nil, err
		}
	}

	s.log(ctx).Info("Investor added to property",
		zap.String("investor_id", inv.InvestorID),
		zap.String("property_id", propertyID),
		zap.String("percentage", req.Percentage.String()),
		zap.Bool("created", created),
	)
	return &AddToPropertyResponse{Investor: ToInvestorResponse(inv), Created: created}, nil
}

// UpdateShare changes the percentage an investor holds in a property
func (s *RosterService) UpdateShare(ctx context.Context, investorID, propertyID string, req UpdateShareRequest) (*InvestorResponse, error) {
	inv, err := s.repo.FindByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	if err := inv.UpdateShare(propertyID, req.Percentage); err != nil {
		return nil, err
	}
	if err := s.save(ctx, inv); err != nil {
		return nil, err
	}
	resp := ToInvestorResponse(inv)
	return &resp, nil
}

// RemoveFromProperty removes an investor's share in a property.
// An investor left without any property is deleted.
func (s *RosterService) RemoveFromProperty(ctx context.Context, investorID, propertyID string) (*RemovalResponse, error) {
	inv, err := s.repo.FindByID(ctx, investorID)
	if err != nil {
		return nil, err
	}
	action, err := inv.DetachProperty(propertyID)
	if err != nil {
		return nil, err
	}

	if action == investor.ActionDeletedCompletely {
		if err := s.repo.Delete(ctx, investorID); err != nil {
			return nil, err
		}
		inv.AddDomainEvent(investor.NewInvestorDeletedEvent(inv))
		s.publishEvents(ctx, inv)
	} else if err := s.save(ctx, inv); err != nil {
		return nil, err
	}

	s.log(ctx).Info("Investor removed from property",
		zap.String("investor_id", investorID),
		zap.String("property_id", propertyID),
		zap.String("action", string(action)),
	)
	return &RemovalResponse{InvestorID: investorID, PropertyID: propertyID, Action: action}, nil
}

// create inserts the investor built for a fresh id. When a concurrent create
// took that id the insert fails and a new id is tried.
func (s *RosterService) create(ctx context.Context, build func(id string) (*investor.Investor, error)) (*investor.Investor, error) {
	var taken []string
	for attempt := 1; ; attempt++ {
		inv, err := build(s.nextInvestorID(ctx, taken))
		if err != nil {
			return nil, err
		}
		err = s.repo.Create(ctx, inv)
		if err == nil {
			s.publishEvents(ctx, inv)
			return inv, nil
		}
		if !errors.Is(err, shared.ErrAlreadyExists) || attempt == maxIDAttempts {
			return nil, err
		}
		s.log(ctx).Warn("Investor id already taken, retrying",
			zap.String("investor_id", inv.InvestorID),
			zap.Int("attempt", attempt),
		)
		taken = append(taken, inv.InvestorID)
	}
}

// nextInvestorID returns max(numeric ids)+1, or a clock-based id when ids cannot be listed.
// Ids in taken are never returned.
func (s *RosterService) nextInvestorID(ctx context.Context, taken []string) string {
	ids, err := s.repo.ListIDs(ctx)
	if err != nil {
		s.log(ctx).Warn("Failed to list investor ids, using timestamp id", zap.Error(err))
		if id := investor.FallbackInvestorID(s.now()); !slices.Contains(taken, id) {
			return id
		}
		return investor.NextInvestorID(taken)
	}
	return investor.NextInvestorID(slices.Concat(ids, taken))
}

func (s *RosterService) save(ctx context.Context, inv *investor.Investor) error {
	if err := s.repo.Save(ctx, inv); err != nil {
		return err
	}
	s.publishEvents(ctx, inv)
	return nil
}

func (s *RosterService) publishEvents(ctx context.Context, inv *investor.Investor) {
	events := inv.GetDomainEvents()
	inv.ClearDomainEvents()
	s.publish(ctx, events...)
}

func (s *RosterService) publish(ctx context.Context, events ...shared.DomainEvent) {
	if s.eventPublisher == nil || len(events) == 0 {
		return
	}
	if err := s.eventPublisher.Publish(ctx, events...); err != nil {
		s.log(ctx).Warn("Failed to publish investor events", zap.Error(err))
	}
}

func (s *RosterService) log(ctx context.Context) *logger.ContextLogger {
	return logger.LOr(ctx, s.logger)
}
