package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/Vinhhoang-1312/apiskylarbox/internal/auth"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/docstore"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/domain"
	"github.com/Vinhhoang-1312/apiskylarbox/internal/event"
	apperrors "github.com/Vinhhoang-1312/apiskylarbox/pkg/errors"
	"github.com/Vinhhoang-1312/apiskylarbox/pkg/pagination"
)

// userSecrets are never read back by the user administration endpoints.
var userSecrets = docstore.Exclude(
	domain.UserFieldPassword,
	domain.UserFieldToken,
	domain.UserFieldSessionID,
	domain.UserFieldResetPasswordToken,
	domain.UserFieldResetPasswordExpires,
)

// UserService implements user administration. Users are only ever soft
// deleted.
type UserService struct {
	users    docstore.Store[domain.User]
	producer event.Publisher
	logger   *slog.Logger
}

// NewUserService creates a new user service.
func NewUserService(users docstore.Store[domain.User], producer event.Publisher, logger *slog.Logger) *UserService {
	return &UserService{users: users, producer: producer, logger: logger}
}

// CreateUserInput holds the parameters for creating a user as an admin.
type CreateUserInput struct {
	RegisterInput
	Fullname  string
	Avatar    string
	IsAdmin   bool
	IsActive  *bool
	DefaultPW bool
}

// UpdateUserInput holds the parameters for updating a user.
type UpdateUserInput struct {
	BusinessID *string
	UserName   *string
	Email      *string
	Phone      *string
	FirstName  *string
	LastName   *string
	Fullname   *string
	Address    *string
	Avatar     *string
	Password   *string
	IsAdmin    *bool
	IsActive   *bool
}

// UserFilter holds the list parameters for users.
type UserFilter struct {
	ListParams
	BusinessID string
	IsAdmin    *bool
	IsActive   *bool
}

func (f UserFilter) compile() docstore.Filter {
	return docstore.And(
		docstore.Search(f.Search, domain.UserFieldUserName, domain.UserFieldEmail, "first_name", "last_name", "fullname"),
		eqIf(domain.UserFieldBusinessID, f.BusinessID),
		flag(domain.UserFieldIsAdmin, f.IsAdmin),
		flag(domain.FieldIsActive, f.IsActive),
	)
}

// Create stores a new user.
func (s *UserService) Create(ctx context.Context, input CreateUserInput) (*domain.User, error) {
	userName := strings.TrimSpace(input.UserName)
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if userName == "" {
		return nil, apperrors.InvalidInput("user_name is required")
	}
	if err := auth.ValidatePassword(input.Password); err != nil {
		return nil, apperrors.InvalidInput(err.Error())
	}
	if err := checkIdentityFree(ctx, s.users, userName, email, ""); err != nil {
		return nil, err
	}

	hash, err := auth.HashPassword(input.Password)
	if err != nil {
		return nil, apperrors.Internal(err)
	}
	fullname := strings.TrimSpace(input.Fullname)
	if fullname == "" {
		fullname = strings.TrimSpace(input.FirstName + " " + input.LastName)
	}

	created, err := s.users.Insert(ctx, &domain.User{
		BusinessID: input.BusinessID,
		UserName:   userName,
		Email:      email,
		Phone:      input.Phone,
		FirstName:  input.FirstName,
		LastName:   input.LastName,
		Fullname:   fullname,
		Address:    input.Address,
		Avatar:     input.Avatar,
		Password:   hash,
		IsAdmin:    input.IsAdmin,
		IsActive:   boolOr(input.IsActive, true),
		DefaultPW:  input.DefaultPW,
	})
	if err != nil {
		return nil, fmt.Errorf("create user: %w", err)
	}

	if err := s.producer.PublishEntity(ctx, domain.EntityUser, event.ActionCreated, created.ID, created); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish user.created event",
			slog.String("user_id", created.ID),
			slog.String("error", err.Error()),
		)
	}
	s.logger.InfoContext(ctx, "user created", slog.String("user_id", created.ID))
	return created, nil
}

// List returns a page of users.
func (s *UserService) List(ctx context.Context, filter UserFilter) (*pagination.Result[domain.User], error) {
	sort, err := sortOrder(filter.Sort, "-created_at")
	if err != nil {
		return nil, err
	}
	res, err := s.users.FindWithPagination(ctx, docstore.PageQuery{
		Filter:     docstore.And(filter.compile(), notDeleted()),
		Page:       filter.Page,
		Limit:      filter.Limit,
		Projection: userSecrets,
		Sort:       sort,
	})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return res, nil
}

// Admins returns every admin user.
func (s *UserService) Admins(ctx context.Context) ([]domain.User, error) {
	return s.findAll(ctx, docstore.Eq(domain.UserFieldIsAdmin, true))
}

// Active returns every active user.
func (s *UserService) Active(ctx context.Context) ([]domain.User, error) {
	return s.findAll(ctx, docstore.Eq(domain.FieldIsActive, true))
}

func (s *UserService) findAll(ctx context.Context, f docstore.Filter) ([]domain.User, error) {
	res, err := s.users.FindAll(ctx, docstore.And(f, notDeleted()),
		docstore.WithProjection(userSecrets),
		docstore.WithSort(docstore.Asc(domain.UserFieldUserName)),
	)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return res.List, nil
}

// Get returns a user by id.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	user, err := s.users.FindOne(ctx, docstore.And(docstore.ID(id), notDeleted()), userSecrets)
	if err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.NotFound(domain.EntityUser, id)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return user, nil
}

// Update applies a partial update. A new password is hashed and clears the
// default password flag.
func (s *UserService) Update(ctx context.Context, id string, input UpdateUserInput) (*domain.User, error) {
	var p patch
	var userName, email string
	if input.UserName != nil {
		userName = strings.TrimSpace(*input.UserName)
		if userName == "" {
			return nil, apperrors.InvalidInput("user_name must not be empty")
		}
		p.set(domain.UserFieldUserName, userName)
	}
	if input.Email != nil {
		email = strings.TrimSpace(strings.ToLower(*input.Email))
		p.set(domain.UserFieldEmail, email)
	}
	if err := checkIdentityFree(ctx, s.users, userName, email, id); err != nil {
		return nil, err
	}
	if input.Password != nil {
		if err := auth.ValidatePassword(*input.Password); err != nil {
			return nil, apperrors.InvalidInput(err.Error())
		}
		hash, err := auth.HashPassword(*input.Password)
		if err != nil {
			return nil, apperrors.Internal(err)
		}
		p.set(domain.UserFieldPassword, hash)
		p.set(domain.UserFieldDefaultPW, false)
	}
	p.str(domain.UserFieldBusinessID, input.BusinessID)
	p.str("phone", input.Phone)
	p.str("first_name", input.FirstName)
	p.str("last_name", input.LastName)
	p.str("fullname", input.Fullname)
	p.str("address", input.Address)
	p.str("avatar", input.Avatar)
	p.boolean(domain.UserFieldIsAdmin, input.IsAdmin)
	p.boolean(domain.FieldIsActive, input.IsActive)

	if p.u.IsEmpty() {
		return s.Get(ctx, id)
	}
	if _, err := s.users.UpdateOne(ctx, docstore.And(docstore.ID(id), notDeleted()), p.u); err != nil {
		if errors.Is(err, docstore.ErrNoDocument) {
			return nil, apperrors.NotFound(domain.EntityUser, id)
		}
		return nil, fmt.Errorf("update user: %w", err)
	}

	s.logger.InfoContext(ctx, "user updated", slog.String("user_id", id))
	return s.Get(ctx, id)
}

// Delete soft deletes a user and revokes its session. Deleting an already
// deleted user is a no-op.
func (s *UserService) Delete(ctx context.Context, id string) error {
	revoke := docstore.Set(domain.FieldIsDelete, true).
		Set(domain.FieldIsActive, false).
		Set(domain.UserFieldToken, "").
		Set(domain.UserFieldSessionID, "")
	_, err := s.users.UpdateOne(ctx, docstore.And(docstore.ID(id), notDeleted()), revoke)
	if err == nil {
		if err := s.producer.PublishEntity(ctx, domain.EntityUser, event.ActionDeleted, id, event.DeletedData{ID: id, Soft: true}); err != nil {
			s.logger.ErrorContext(ctx, "failed to publish user.deleted event",
				slog.String("user_id", id),
				slog.String("error", err.Error()),
			)
		}
		s.logger.InfoContext(ctx, "user deleted", slog.String("user_id", id))
		return nil
	}
	if !errors.Is(err, docstore.ErrNoDocument) {
		return fmt.Errorf("delete user: %w", err)
	}

	found, err := s.users.Exists(ctx, docstore.ID(id))
	if err != nil {
		return fmt.Errorf("check user exists: %w", err)
	}
	if !found {
		return apperrors.NotFound(domain.EntityUser, id)
	}
	return nil
}
