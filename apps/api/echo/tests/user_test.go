package tests

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/aimelive/mcsa-awards/core/user"
)

func Test_userApi_login(t *testing.T) {
	app := setup(t)

	app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	app.createUser(t, "Bob", "bob@test.cd", user.RoleAdmin, user.StatusActive, false)
	app.createUser(t, "Sam", "sam@test.cd", user.RoleAdmin, user.StatusSuspended, true)
	app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)

	// an account awaiting its password setup email
	now := time.Now().UTC()
	if _, err := app.usrRepo.CreateUser(context.Background(), user.User{
		FirstName: "Nina",
		Email:     "nina@test.cd",
		Role:      user.RoleAdmin,
		Status:    user.StatusActive,
		Verified:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		t.Fatalf("CreateUser() failed: %v", err)
	}

	body := func(email, pwd string) []byte {
		return marchallObj(t, user.Login{Email: email, Password: pwd})
	}

	tests := []httpTest{
		{name: "Email required", body: body("", testPassword), wantCode: http.StatusBadRequest},
		{name: "Password required", body: body("alice@test.cd", ""), wantCode: http.StatusBadRequest},
		{
			name: "Unknown email", body: body("ghost@test.cd", testPassword), wantCode: http.StatusNotFound,
			wantMessage: "(ghost@test.cd) Account with this email does not exist, please try again.",
		},
		{
			name: "Unverified account", body: body("bob@test.cd", testPassword), wantCode: http.StatusForbidden,
			wantMessage: "(Bob) This account is not verified, please contact an admin for help.",
		},
		{
			name: "Suspended account", body: body("sam@test.cd", testPassword), wantCode: http.StatusForbidden,
			wantMessage: "(Sam) SUSPENDED account can not log in, please contact an admin for help.",
		},
		{
			name: "No password set", body: body("nina@test.cd", testPassword), wantCode: http.StatusForbidden,
			wantMessage: "(Nina) This account does not have secure password for security, please check your email to set a security password.",
		},
		{
			name: "Wrong password", body: body("alice@test.cd", "nope"), wantCode: http.StatusBadRequest,
			wantMessage: "Incorrect password, please try again.",
		},
		{
			name: "USER role rejected", body: body("paul@test.cd", testPassword), wantCode: http.StatusBadRequest,
			wantMessage: "Sorry, you should be an admin to be able to continue.",
		},
		{
			name: "OK", body: body("alice@test.cd", testPassword), wantCode: http.StatusOK,
			wantMessage: "User logged in successfully!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodPost, "/v1/users/login", tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				if res := decodeResponse(t, rec); res.Token == "" {
					t.Error("login response is missing the token")
				}
			}
		})
	}
}

func Test_userApi_create(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	plain := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	adminToken := getToken(t, admin)

	body := func(firstName, email string) []byte {
		return marchallObj(t, user.NewUser{FirstName: firstName, Email: email})
	}

	tests := []httpTest{
		{
			name: "Auth required", body: body("Diana", "diana@test.cd"),
			wantCode: http.StatusUnauthorized, wantMessage: errMissingToken,
		},
		{
			name: "Admin required", body: body("Diana", "diana@test.cd"), token: getToken(t, plain),
			wantCode: http.StatusForbidden, wantMessage: accessDenied(user.RoleAdmin),
		},
		{name: "Invalid first name", body: body("D1", "diana@test.cd"), token: adminToken, wantCode: http.StatusBadRequest},
		{
			name: "OK", body: body("Diana", "diana@test.cd"), token: adminToken,
			wantCode: http.StatusCreated, wantMessage: "User created successfully!",
		},
		{
			name: "Duplicate email", body: body("Diana", "diana@test.cd"), token: adminToken,
			wantCode: http.StatusConflict, wantMessage: "This email is already used, please use a different email.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/users", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var created user.User
				decodeData(t, rec, &created)
				if created.Role != user.RoleUser || created.Status != user.StatusActive {
					t.Errorf("created role/status = %s/%s; want %s/%s",
						created.Role, created.Status, user.RoleUser, user.StatusActive)
				}
			}
		})
	}
}

func Test_userApi_query(t *testing.T) {
	app := setup(t)

	super := app.createUser(t, "Root", "root@test.cd", user.RoleSuperAdmin, user.StatusActive, true)
	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	app.createUser(t, "Bob", "bob@test.cd", user.RoleAdmin, user.StatusActive, true)
	app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	app.createUser(t, "Jane", "jane@test.cd", user.RoleUser, user.StatusActive, true)

	tests := []struct {
		name       string
		token      string
		wantEmails []string
	}{
		{
			// the USER accounts plus their own, never other admins
			name: "Admin viewer", token: getToken(t, admin),
			wantEmails: []string{"alice@test.cd", "paul@test.cd", "jane@test.cd"},
		},
		{
			name: "Super admin viewer", token: getToken(t, super),
			wantEmails: []string{"root@test.cd", "alice@test.cd", "bob@test.cd", "paul@test.cd", "jane@test.cd"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, "/v1/users", tt.token)
			app.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}

			var users []user.User
			res := decodeData(t, rec, &users)
			if res.Count == nil || *res.Count != len(tt.wantEmails) {
				t.Errorf("_count = %v; want %d", res.Count, len(tt.wantEmails))
			}
			emails := make([]string, 0, len(users))
			for _, usr := range users {
				emails = append(emails, usr.Email)
			}
			assert.ElementsMatch(t, tt.wantEmails, emails)
		})
	}
}

func Test_userApi_retrieve(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	app.createActivity(t, prof.ID, 3)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "Not found", path: "/v1/users/64a000000000000000000000", wantCode: http.StatusNotFound, wantMessage: "User not found!"},
		{name: "OK", path: "/v1/users/" + paul.ID, wantCode: http.StatusOK, wantMessage: "User info retrieved successfully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodGet, tt.path, adminToken)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var detail user.Detail
				decodeData(t, rec, &detail)
				if detail.ProfileDetail == nil {
					t.Fatal("detail is missing the profile")
				}
				if len(detail.ProfileDetail.Activities) != 1 {
					t.Errorf("joined activities = %d; want 1", len(detail.ProfileDetail.Activities))
				}
			}
		})
	}
}

func Test_userApi_update(t *testing.T) {
	app := setup(t)

	super := app.createUser(t, "Root", "root@test.cd", user.RoleSuperAdmin, user.StatusActive, true)
	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{name: "No changes", path: "/v1/users/" + paul.ID, body: []byte(`{}`), wantCode: http.StatusBadRequest, wantMessage: "No changes made"},
		{
			name: "Super admin role immutable", path: "/v1/users/" + super.ID, body: []byte(`{"role":"ADMIN"}`),
			wantCode: http.StatusBadRequest, wantMessage: "Super Admin role can not be changed!.",
		},
		{
			name: "Super admin stays active", path: "/v1/users/" + super.ID, body: []byte(`{"status":"INACTIVE"}`),
			wantCode: http.StatusBadRequest, wantMessage: "Super Admin account can not be inactive!.",
		},
		{
			name: "Super admin email immutable", path: "/v1/users/" + super.ID, body: []byte(`{"email":"other@test.cd"}`),
			wantCode: http.StatusBadRequest, wantMessage: "Super Admin email can not be changed!",
		},
		{
			name: "Not found", path: "/v1/users/64a000000000000000000000", body: []byte(`{"firstName":"Peter"}`),
			wantCode: http.StatusNotFound, wantMessage: "User not found!",
		},
		{
			name: "OK", path: "/v1/users/" + paul.ID, body: []byte(`{"firstName":"Peter"}`),
			wantCode: http.StatusOK, wantMessage: "User account updated successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, adminToken, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var updated user.User
				decodeData(t, rec, &updated)
				if updated.FirstName != "Peter" {
					t.Errorf("firstName = %s; want Peter", updated.FirstName)
				}
			}
		})
	}

	t.Run("Changed email is re-verified", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/users/"+paul.ID, adminToken, []byte(`{"email":"peter@test.cd"}`))
		app.server.ServeHTTP(rec, req)
		if rec.Code != http.StatusOK {
			t.Fatalf("code = %v; want %v (body %s)", rec.Code, http.StatusOK, rec.Body.String())
		}
		var updated user.User
		decodeData(t, rec, &updated)
		if updated.Verified {
			t.Error("user kept verified status after an email change")
		}
	})
}

func Test_userApi_destroy(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	verifiedAdmin := app.createUser(t, "Vera", "vera@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Not found", path: "/v1/users/64a000000000000000000000",
			wantCode: http.StatusNotFound, wantMessage: "User not found!",
		},
		{
			name: "Verified admin protected", path: "/v1/users/" + verifiedAdmin.ID,
			wantCode:    http.StatusBadRequest,
			wantMessage: "Verified admin should not be deleted, please unverify this account manually and try again.",
		},
		{
			name: "OK", path: "/v1/users/" + paul.ID,
			wantCode: http.StatusOK, wantMessage: "User deleted successfully!",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, adminToken)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)
		})
	}

	// the profile is removed with the user and its picture cleaned up
	if _, err := app.profRepo.GetProfileByUserID(context.Background(), paul.ID); err == nil {
		t.Error("profile survived its owner's deletion")
	}
	app.waitDeleted(t, prof.ProfilePic)
}
