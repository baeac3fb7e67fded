package user

import (
	"context"
	"fmt"
	"net/http"
	"net/mail"
	"time"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/images"
)

var (
	ErrEmailExists = core.NewAPIError(http.StatusConflict,
		"This email is already used, please use a different email.")
	ErrNotFound          = core.NewAPIError(http.StatusNotFound, "User not found!")
	ErrIncorrectPassword = core.NewAPIError(http.StatusBadRequest, "Incorrect password, please try again.")
	ErrNotAnAdmin        = core.NewAPIError(http.StatusBadRequest,
		"Sorry, you should be an admin to be able to continue.")
	ErrNoChanges          = core.NewAPIError(http.StatusBadRequest, "No changes made")
	ErrSuperAdminRole     = core.NewAPIError(http.StatusBadRequest, "Super Admin role can not be changed!.")
	ErrSuperAdminInactive = core.NewAPIError(http.StatusBadRequest, "Super Admin account can not be inactive!.")
	ErrSuperAdminEmail    = core.NewAPIError(http.StatusBadRequest, "Super Admin email can not be changed!")
	ErrProtectedAccount   = core.NewAPIError(http.StatusBadRequest,
		"Verified admin should not be deleted, please unverify this account manually and try again.")
)

type (
	// Changes is the set of user fields the persistence layer may modify;
	// zero values are left untouched.
	Changes struct {
		FirstName    string
		LastName     string
		Email        string
		PasswordHash []byte
		Role         string
		Status       string
		Verified     *bool
		UpdatedAt    time.Time
	}

	Repository interface {
		CreateUser(ctx context.Context, usr User) (User, error)
		GetUserByID(ctx context.Context, id string) (User, error)
		// GetUserByEmail returns the user with their profile joined.
		GetUserByEmail(ctx context.Context, email string) (User, error)
		// GetUserDetail returns the user with their full profile and its
		// related content, newest first.
		GetUserDetail(ctx context.Context, id string) (Detail, error)
		// QueryUsers returns users visible to the viewer, newest first,
		// profile joined, capped at 50. SUPER_ADMIN sees everyone; any
		// other viewer sees the USER accounts plus their own account.
		QueryUsers(ctx context.Context, filter QueryFilter) ([]User, error)
		UpdateUser(ctx context.Context, id string, changes Changes) (User, error)
		// DeleteUser removes the user and their profile in one transaction;
		// guard runs against the found user inside the transaction and a
		// guard failure aborts the whole delete.
		DeleteUser(ctx context.Context, id string, guard func(User) error) (User, error)
	}

	Service struct {
		repo   Repository
		images *images.Lifecycle
		mail   core.EmailService
	}
)

func NewService(repo Repository, lc *images.Lifecycle, mailSvc core.EmailService) *Service {
	return &Service{repo: repo, images: lc, mail: mailSvc}
}

func (svc *Service) Create(ctx context.Context, nu NewUser) (User, error) {
	now := time.Now().UTC()
	usr := User{
		FirstName: nu.FirstName,
		LastName:  nu.LastName,
		Email:     nu.Email,
		Role:      RoleUser,
		Status:    StatusActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if nu.Password != "" {
		if err := usr.SetPassword(nu.Password); err != nil {
			return User{}, err
		}
	}

	created, err := svc.repo.CreateUser(ctx, usr)
	if err != nil {
		if core.IsConflict(err, "email") {
			return User{}, ErrEmailExists
		}
		return User{}, err
	}

	if nu.Password == "" {
		svc.mail.SendMessages(&core.EmailMessage{
			To:      []mail.Address{{Name: created.FullName(), Address: created.Email}},
			Subject: "Set up your password",
			Body: fmt.Sprintf(
				"Hi %s,\n\nAn account has been created for you. "+
					"Please visit %s to set a security password before logging in.",
				created.FirstName, core.Conf.FrontendBaseURL),
		})
	}
	return created, nil
}

// Authenticate checks the dashboard sign-in rules and returns the account on
// success. USER-role accounts cannot enter the admin dashboard.
func (svc *Service) Authenticate(ctx context.Context, login Login) (User, error) {
	usr, err := svc.repo.GetUserByEmail(ctx, login.Email)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, core.NewAPIError(http.StatusNotFound,
				fmt.Sprintf("(%s) Account with this email does not exist, please try again.", login.Email))
		}
		return User{}, err
	}
	if !usr.Verified {
		return User{}, core.NewAPIError(http.StatusForbidden,
			fmt.Sprintf("(%s) This account is not verified, please contact an admin for help.", usr.FullName()))
	}
	if usr.Status != StatusActive {
		return User{}, core.NewAPIError(http.StatusForbidden,
			fmt.Sprintf("(%s) %s account can not log in, please contact an admin for help.", usr.FullName(), usr.Status))
	}
	if len(usr.PasswordHash) == 0 {
		return User{}, core.NewAPIError(http.StatusForbidden,
			fmt.Sprintf("(%s) This account does not have secure password for security, please check your email to set a security password.", usr.FullName()))
	}
	if err := usr.CheckPassword(login.Password); err != nil {
		return User{}, ErrIncorrectPassword
	}
	if usr.Role == RoleUser {
		return User{}, ErrNotAnAdmin
	}
	return usr, nil
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]User, error) {
	return svc.repo.QueryUsers(ctx, filter)
}

func (svc *Service) GetByID(ctx context.Context, id string) (Detail, error) {
	detail, err := svc.repo.GetUserDetail(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return Detail{}, ErrNotFound
		}
		return Detail{}, err
	}
	return detail, nil
}

func (svc *Service) Update(ctx context.Context, id string, uu UpdateUser) (User, error) {
	if uu.IsEmpty() {
		return User{}, ErrNoChanges
	}

	usr, err := svc.repo.GetUserByID(ctx, id)
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	// SUPER_ADMIN identity fields are immutable
	if usr.Role == RoleSuperAdmin {
		if uu.Role != "" {
			return User{}, ErrSuperAdminRole
		}
		if uu.Status != "" && uu.Status != StatusActive {
			return User{}, ErrSuperAdminInactive
		}
		if uu.Email != "" {
			return User{}, ErrSuperAdminEmail
		}
	}

	changes := Changes{
		FirstName: uu.FirstName,
		LastName:  uu.LastName,
		Email:     uu.Email,
		Role:      uu.Role,
		Status:    uu.Status,
		Verified:  uu.Verified,
		UpdatedAt: time.Now().UTC(),
	}
	if uu.Password != "" {
		var hashed User
		if err := hashed.SetPassword(uu.Password); err != nil {
			return User{}, err
		}
		changes.PasswordHash = hashed.PasswordHash
	}
	// a changed email must be re-verified
	if uu.Email != "" && uu.Email != usr.Email {
		verified := false
		changes.Verified = &verified
	}

	updated, err := svc.repo.UpdateUser(ctx, id, changes)
	if err != nil {
		if core.IsConflict(err, "email") {
			return User{}, ErrEmailExists
		}
		if core.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return updated, nil
}

// Delete removes the user and their profile. A verified non-USER account is
// protected: it must be unverified manually before it can be deleted.
func (svc *Service) Delete(ctx context.Context, id string) (User, error) {
	deleted, err := svc.repo.DeleteUser(ctx, id, func(usr User) error {
		if usr.Verified && usr.Role != RoleUser {
			return ErrProtectedAccount
		}
		return nil
	})
	if err != nil {
		if core.IsNotFound(err) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}

	if deleted.Profile != nil && deleted.Profile.ProfilePic != "" {
		svc.images.Release(deleted.Profile.ProfilePic)
	}
	svc.mail.SendMessages(&core.EmailMessage{
		To:      []mail.Address{{Name: deleted.FullName(), Address: deleted.Email}},
		Subject: "Your account has been deleted",
		Body: fmt.Sprintf(
			"Hi %s,\n\nYour %s account and its related data have been removed from our system.",
			deleted.FirstName, core.Conf.AppName),
	})
	return deleted, nil
}
