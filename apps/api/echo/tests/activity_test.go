package tests

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/images"
	"github.com/aimelive/mcsa-awards/core/user"
)

const (
	actTitle   = "A memorable school activity title"
	actCaption = "A caption long enough to describe what happened during this school activity."
)

func newActivityBody(t *testing.T, profileID string, imageCount int) []byte {
	t.Helper()
	sources := make([]string, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		sources = append(sources, fmt.Sprintf("raw:new-act-%d", i))
	}
	return marchallObj(t, activity.NewActivity{
		Title:         actTitle,
		Caption:       actCaption,
		Images:        sources,
		UserProfileID: profileID,
	})
}

func Test_activityApi_create(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Auth required", body: newActivityBody(t, prof.ID, 3),
			wantCode: http.StatusUnauthorized, wantMessage: errMissingToken,
		},
		{
			name: "Admin required", body: newActivityBody(t, prof.ID, 3), token: getToken(t, paul),
			wantCode: http.StatusForbidden, wantMessage: accessDenied(user.RoleAdmin),
		},
		{name: "Too few images", body: newActivityBody(t, prof.ID, 2), token: adminToken, wantCode: http.StatusBadRequest},
		{name: "Too many images", body: newActivityBody(t, prof.ID, 6), token: adminToken, wantCode: http.StatusBadRequest},
		{
			name: "OK", body: newActivityBody(t, prof.ID, 3), token: adminToken,
			wantCode: http.StatusCreated, wantMessage: "Activity added successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPost, "/v1/activities", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusCreated {
				var created activity.Activity
				decodeData(t, rec, &created)
				if len(created.Images) != 3 {
					t.Fatalf("images = %v; want 3 hosted urls", created.Images)
				}
				for _, url := range created.Images {
					if !app.uploader.Hosted(url) {
						t.Errorf("image %q was not stored", url)
					}
				}
			}
		})
	}
}

func Test_activityApi_create_missingProfile(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	base := len(app.uploader.Deleted())

	tt := httpTest{
		wantCode:    http.StatusNotFound,
		wantMessage: "The profile does not exist.",
	}
	req, rec := newAuthRequest(http.MethodPost, "/v1/activities", getToken(t, admin),
		newActivityBody(t, "64a000000000000000000000", 3))
	app.server.ServeHTTP(rec, req)
	checkCodeAndMessage(t, tt, rec)

	// the images uploaded before the failed write get cleaned up
	app.waitDeletedCount(t, base+3)
}

func Test_activityApi_query(t *testing.T) {
	app := setup(t)

	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	jane := app.createUser(t, "Jane", "jane@test.cd", user.RoleUser, user.StatusActive, true)
	paulProf := app.createProfile(t, paul.ID, "paulthegreat")
	janeProf := app.createProfile(t, jane.ID, "janethegreat")
	app.createActivity(t, paulProf.ID, 3)
	app.createActivity(t, paulProf.ID, 4)
	app.createActivity(t, janeProf.ID, 3)

	tests := []struct {
		name      string
		path      string
		wantCount int
	}{
		{name: "All", path: "/v1/activities", wantCount: 3},
		{name: "By profile", path: "/v1/activities/profile/" + paulProf.ID, wantCount: 2},
		{name: "Unknown profile", path: "/v1/activities/profile/64a000000000000000000000", wantCount: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path) // public
			app.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}

			var acts []activity.Activity
			res := decodeData(t, rec, &acts)
			if res.Message != "Activities retrieved successfully" {
				t.Errorf("message = %q", res.Message)
			}
			if len(acts) != tt.wantCount || res.Count == nil || *res.Count != tt.wantCount {
				t.Errorf("listed %d activities (_count %v); want %d", len(acts), res.Count, tt.wantCount)
			}
		})
	}
}

func Test_activityApi_retrieve(t *testing.T) {
	app := setup(t)

	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	act := app.createActivity(t, prof.ID, 3)

	tests := []httpTest{
		{
			name: "Not found", path: "/v1/activities/64a000000000000000000000",
			wantCode: http.StatusNotFound, wantMessage: "Activity not found in our system",
		},
		{
			name: "OK", path: "/v1/activities/" + act.ID,
			wantCode: http.StatusOK, wantMessage: "Activity retrieved successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path) // public
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var detail activity.Detail
				decodeData(t, rec, &detail)
				if detail.UserProfile == nil || detail.UserProfile.ID != prof.ID {
					t.Errorf("joined profile = %+v; want %s", detail.UserProfile, prof.ID)
				}
			}
		})
	}
}

func Test_activityApi_update(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	act := app.createActivity(t, prof.ID, 3)
	adminToken := getToken(t, admin)

	newTitle := "A freshly renamed school activity"
	body := marchallObj(t, activity.UpdateActivity{Title: newTitle})

	tests := []httpTest{
		{
			name: "Not found", path: "/v1/activities/64a000000000000000000000", body: body,
			wantCode: http.StatusNotFound, wantMessage: "Activity trying to edit does not exist.",
		},
		{
			name: "OK", path: "/v1/activities/" + act.ID, body: body,
			wantCode: http.StatusOK, wantMessage: "Activity updated successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, adminToken, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var updated activity.Activity
				decodeData(t, rec, &updated)
				if updated.Title != newTitle {
					t.Errorf("title = %q; want %q", updated.Title, newTitle)
				}
			}
		})
	}
}

func Test_activityApi_addImage(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	act := app.createActivity(t, prof.ID, 4)
	adminToken := getToken(t, admin)

	body := marchallObj(t, activity.ImageRef{Image: "raw:extra"})

	t.Run("OK", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/activities/addImage/"+act.ID, adminToken, body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantMessage: "Image added successfully to the activity"}
		checkCodeAndMessage(t, tt, rec)

		var updated activity.Activity
		decodeData(t, rec, &updated)
		if len(updated.Images) != 5 {
			t.Errorf("images = %v; want 5", updated.Images)
		}
	})

	t.Run("Limit reached before uploading", func(t *testing.T) {
		// a store failure would surface as a 500; the limit must trip first
		app.uploader.FailNextUpload(images.UploadUnknown)

		req, rec := newAuthRequest(http.MethodPatch, "/v1/activities/addImage/"+act.ID, adminToken, body)
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusForbidden, wantMessage: "Activity should have no more than 5 images"}
		checkCodeAndMessage(t, tt, rec)
	})
}

func Test_activityApi_removeImage(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	minimal := app.createActivity(t, prof.ID, 3)
	act := app.createActivity(t, prof.ID, 4)
	adminToken := getToken(t, admin)

	target := act.Images[1]
	body := func(url string) []byte { return marchallObj(t, activity.ImageRef{Image: url}) }

	tests := []httpTest{
		{
			name: "Unknown image", path: "/v1/activities/removeImage/" + act.ID, body: body("https://images.test/hosted/none.png"),
			wantCode: http.StatusBadRequest, wantMessage: "This image does not already includes in this activity images",
		},
		{
			name: "At the minimum", path: "/v1/activities/removeImage/" + minimal.ID, body: body(minimal.Images[0]),
			wantCode: http.StatusBadRequest, wantMessage: "Activity can not have less than 3 images",
		},
		{
			name: "OK", path: "/v1/activities/removeImage/" + act.ID, body: body(target),
			wantCode: http.StatusOK, wantMessage: "Image removed successfully from the activity.",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodPatch, tt.path, adminToken, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			if tt.wantCode == http.StatusOK {
				var updated activity.Activity
				decodeData(t, rec, &updated)
				if len(updated.Images) != 3 {
					t.Errorf("images = %v; want 3", updated.Images)
				}
				app.waitDeleted(t, target)
			}
		})
	}

	// the failed removals left both activities untouched
	for _, url := range minimal.Images {
		if !app.uploader.Hosted(url) {
			t.Errorf("image %q was cleaned up by a rejected removal", url)
		}
	}
}

func Test_activityApi_destroy(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	act := app.createActivity(t, prof.ID, 4)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Not found", path: "/v1/activities/64a000000000000000000000",
			wantCode: http.StatusNotFound, wantMessage: "Activity not found in our system",
		},
		{
			name: "OK", path: "/v1/activities/" + act.ID,
			wantCode: http.StatusOK, wantMessage: "Activity deleted successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(http.MethodDelete, tt.path, adminToken)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)
		})
	}

	// all owned images get cleaned up with the activity
	for _, url := range act.Images {
		app.waitDeleted(t, url)
	}
}
