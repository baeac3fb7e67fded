package tests

import (
	"net/http"
	"testing"

	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/user"
)

func newProfileBody(t *testing.T, username string) []byte {
	t.Helper()
	return marchallObj(t, profile.NewProfile{
		Username: username,
		Bio:      "The best rapper you should know",
		Image:    "raw:" + username,
	})
}

func Test_profileApi_create(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Auth required", path: "/v1/profile/" + paul.ID, body: newProfileBody(t, "paulthegreat"),
			wantCode: http.StatusUnauthorized, wantMessage: errMissingToken,
		},
		{
			name: "Admin required", path: "/v1/profile/" + paul.ID, body: newProfileBody(t, "paulthegreat"),
			token: getToken(t, paul), wantCode: http.StatusForbidden, wantMessage: accessDenied(user.RoleAdmin),
		},
		{name: "Username too short", path: "/v1/profile/" + paul.ID, body: newProfileBody(t, "pt"), token: adminToken, wantCode: http.StatusBadRequest},
		{
			name: "Unknown user", path: "/v1/profile/64a000000000000000000000", body: newProfileBody(t, "ghostwriter"),
			token: adminToken, wantCode: http.StatusNotFound, wantMessage: "User not found!",
		},
		{
			name: "OK", path: "/v1/profile/" + paul.ID, body: newProfileBody(t, "paulthegreat"),
			token: adminToken, wantCode: http.StatusCreated, wantMessage: "Profile created successfully!",
		},
		{
			name: "Already exists", path: "/v1/profile/" + paul.ID, body: newProfileBody(t, "paulagain"),
			token: adminToken, wantCode: http.StatusConflict, wantMessage: "Profile already exists",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := len(app.uploader.Deleted())

			req, rec := newAuthRequest(http.MethodPost, tt.path, tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			switch tt.wantCode {
			case http.StatusCreated:
				var created profile.Profile
				decodeData(t, rec, &created)
				if created.ProfilePic == "" || !app.uploader.Hosted(created.ProfilePic) {
					t.Errorf("profilePic %q was not stored", created.ProfilePic)
				}
			case http.StatusNotFound, http.StatusConflict:
				// the picture uploaded before the failed write gets cleaned up
				app.waitDeletedCount(t, base+1)
			}
		})
	}
}

func Test_profileApi_query(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	jane := app.createUser(t, "Jane", "jane@test.cd", user.RoleUser, user.StatusActive, true)
	app.createProfile(t, paul.ID, "paulthegreat")
	app.createProfile(t, jane.ID, "janethegreat")

	req, rec := newAuthRequest(http.MethodGet, "/v1/profile", getToken(t, admin))
	app.server.ServeHTTP(rec, req)
	tt := httpTest{wantCode: http.StatusOK, wantMessage: "User profiles retrieved successfully"}
	checkCodeAndMessage(t, tt, rec)

	var profiles []profile.Profile
	res := decodeData(t, rec, &profiles)
	if len(profiles) != 2 || res.Count == nil || *res.Count != 2 {
		t.Errorf("listed %d profiles (_count %v); want 2", len(profiles), res.Count)
	}
}

func Test_profileApi_retrieve(t *testing.T) {
	app := setup(t)

	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	app.createActivity(t, prof.ID, 3)
	app.createActivity(t, prof.ID, 3)

	tests := []httpTest{
		{
			name: "Not found", path: "/v1/profile/64a000000000000000000000",
			wantCode: http.StatusNotFound, wantMessage: "Profile not found!",
		},
		{
			name: "By user not found", path: "/v1/profile/user/64a000000000000000000000",
			wantCode:    http.StatusNotFound,
			wantMessage: "Profile with this user Id '64a000000000000000000000' isn't  found in our system",
		},
		{name: "OK", path: "/v1/profile/" + prof.ID, wantCode: http.StatusOK, wantMessage: "User info retrieved successfully"},
		{name: "By user OK", path: "/v1/profile/user/" + paul.ID, wantCode: http.StatusOK, wantMessage: "User info retrieved successfully"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path) // public
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var info user.ProfileInfo
				decodeData(t, rec, &info)
				if info.User == nil || info.User.ID != paul.ID {
					t.Errorf("joined user = %+v; want %s", info.User, paul.ID)
				}
				if info.Counts == nil || info.Counts.Activities != 2 {
					t.Errorf("counts = %+v; want 2 activities", info.Counts)
				}
			}
		})
	}
}

func Test_profileApi_update(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	adminToken := getToken(t, admin)

	t.Run("Not found", func(t *testing.T) {
		body := marchallObj(t, profile.UpdateProfile{Bio: "A brand new bio"})
		req, rec := newAuthRequest(http.MethodPatch, "/v1/profile/64a000000000000000000000", adminToken, body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusNotFound, wantMessage: "Profile not found!"}
		checkCodeAndMessage(t, tt, rec)
	})

	t.Run("OK", func(t *testing.T) {
		body := marchallObj(t, profile.UpdateProfile{Bio: "A brand new bio"})
		req, rec := newAuthRequest(http.MethodPatch, "/v1/profile/"+paul.ID, adminToken, body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantMessage: "Profile updated succesfully"}
		checkCodeAndMessage(t, tt, rec)

		var updated profile.Profile
		decodeData(t, rec, &updated)
		if updated.Bio != "A brand new bio" {
			t.Errorf("bio = %q; want the new bio", updated.Bio)
		}
	})

	t.Run("Replaces the picture", func(t *testing.T) {
		body := marchallObj(t, profile.UpdateProfile{Image: "raw:better-pic"})
		req, rec := newAuthRequest(http.MethodPatch, "/v1/profile/"+paul.ID, adminToken, body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantMessage: "Profile updated succesfully"}
		checkCodeAndMessage(t, tt, rec)

		var updated profile.Profile
		decodeData(t, rec, &updated)
		if updated.ProfilePic == prof.ProfilePic || !app.uploader.Hosted(updated.ProfilePic) {
			t.Errorf("profilePic = %q; want a fresh hosted url", updated.ProfilePic)
		}
		// the replaced picture gets cleaned up
		app.waitDeleted(t, prof.ProfilePic)
	})
}
