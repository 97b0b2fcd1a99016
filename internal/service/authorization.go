package service

import (
	"context"

	"github.com/google/uuid"

	"taskboard/internal/apperror"
	"taskboard/internal/model"
	"taskboard/internal/repository"
)

// AuthorizationService resolves effective roles and exposes the
// capability checks that gate every board and task operation. It only
// answers questions; turning a false answer into a Forbidden response is
// the caller's job.
type AuthorizationService struct {
	boardRepo *repository.BoardRepository
	userRepo  repository.UserRepositoryInterface
	permRepo  *repository.PermissionRepository
}

func NewAuthorizationService(
	boardRepo *repository.BoardRepository,
	userRepo repository.UserRepositoryInterface,
	permRepo *repository.PermissionRepository,
) *AuthorizationService {
	return &AuthorizationService{
		boardRepo: boardRepo,
		userRepo:  userRepo,
		permRepo:  permRepo,
	}
}

// Member is one entry of a board's access list.
type Member struct {
	UserID  uuid.UUID
	Email   string
	Name    string
	Role    model.Role
	IsOwner bool
}

// RoleFor resolves the user's effective role on a board. The board's
// creator is the owner without consulting the permissions table;
// otherwise the explicit grant decides. Returns "" when the user has no
// access at all.
func (s *AuthorizationService) RoleFor(ctx context.Context, userID, boardID uuid.UUID) (model.Role, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return "", err
	}
	if board == nil {
		return "", apperror.NotFoundf("board %s", boardID)
	}

	if board.CreatedBy == userID {
		return model.RoleOwner, nil
	}

	perm, err := s.permRepo.GetByUserAndBoard(ctx, userID, boardID)
	if err != nil {
		return "", err
	}
	if perm == nil {
		return "", nil
	}
	return perm.Role, nil
}

// CanAccess reports whether the user holds any role on the board.
func (s *AuthorizationService) CanAccess(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	role, err := s.RoleFor(ctx, userID, boardID)
	if err != nil {
		return false, err
	}
	return role != "", nil
}

// CanEdit reports whether the user may mutate the board's tasks.
func (s *AuthorizationService) CanEdit(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	role, err := s.RoleFor(ctx, userID, boardID)
	if err != nil {
		return false, err
	}
	return role.AtLeast(model.RoleEditor), nil
}

// CanDelete reports whether the user may delete the board or manage its
// grants. Only the owner can.
func (s *AuthorizationService) CanDelete(ctx context.Context, userID, boardID uuid.UUID) (bool, error) {
	role, err := s.RoleFor(ctx, userID, boardID)
	if err != nil {
		return false, err
	}
	return role == model.RoleOwner, nil
}

// Grant gives the user identified by email an explicit role on the board.
// Granting a role the user already holds is a conflict; granting over a
// different existing role replaces it, so a user holds at most one
// explicit role per board. Ownership cannot be granted.
func (s *AuthorizationService) Grant(ctx context.Context, email string, boardID uuid.UUID, role model.Role) error {
	if !role.Grantable() {
		return apperror.Validationf("role %q cannot be granted", role)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return err
	}
	if user == nil {
		return apperror.NotFoundf("user with email %s", email)
	}

	current, err := s.RoleFor(ctx, user.ID, boardID)
	if err != nil {
		return err
	}
	if current == model.RoleOwner {
		return apperror.Conflictf("user %s is the board owner", email)
	}
	if current == role {
		return apperror.Conflictf("user %s already has role %s", email, role)
	}

	return s.permRepo.Grant(ctx, user.ID, boardID, role)
}

// Revoke removes the user's explicit role on the board. The role must
// match what the user actually holds. The implicit owner role never has
// a permission row and therefore cannot be revoked here.
func (s *AuthorizationService) Revoke(ctx context.Context, userID, boardID uuid.UUID, role model.Role) error {
	if !role.Grantable() {
		return apperror.Validationf("role %q cannot be revoked", role)
	}

	perm, err := s.permRepo.GetByUserAndBoard(ctx, userID, boardID)
	if err != nil {
		return err
	}
	if perm == nil {
		return apperror.NotFoundf("no %s grant for user %s on board %s", role, userID, boardID)
	}
	if perm.Role != role {
		return apperror.Conflictf("user %s holds role %s, not %s", userID, perm.Role, role)
	}

	return s.permRepo.Revoke(ctx, userID, boardID)
}

// Members returns everyone with access to the board: the implicit owner
// plus all explicit grants. The owner appears exactly once even if a
// stray explicit row exists for them.
func (s *AuthorizationService) Members(ctx context.Context, boardID uuid.UUID) ([]Member, error) {
	board, err := s.boardRepo.GetByID(ctx, boardID)
	if err != nil {
		return nil, err
	}
	if board == nil {
		return nil, apperror.NotFoundf("board %s", boardID)
	}

	members := []Member{}

	owner, err := s.userRepo.GetByID(ctx, board.CreatedBy)
	if err != nil {
		return nil, err
	}
	if owner != nil {
		members = append(members, Member{
			UserID:  owner.ID,
			Email:   owner.Email,
			Name:    owner.Name,
			Role:    model.RoleOwner,
			IsOwner: true,
		})
	}

	perms, err := s.permRepo.ListByBoard(ctx, boardID)
	if err != nil {
		return nil, err
	}
	for _, perm := range perms {
		if perm.UserID == board.CreatedBy {
			continue
		}
		members = append(members, Member{
			UserID: perm.UserID,
			Email:  perm.User.Email,
			Name:   perm.User.Name,
			Role:   perm.Role,
		})
	}
	return members, nil
}
