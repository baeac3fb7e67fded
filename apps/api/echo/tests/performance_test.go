package tests

import (
	"net/http"
	"testing"

	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
)

func newPerformanceBody(t *testing.T, profileID string, mutate func(*performance.NewPerformance)) []byte {
	t.Helper()
	np := performance.NewPerformance{
		Title:         "An unforgettable live stage performance",
		Description:   "A description long enough to cover what the audience saw during this performance.",
		SeasonName:    season.Season1,
		VideoURL:      "https://youtube.com/watch?v=dQw4w9WgXcQ",
		Duration:      "03:45",
		Images:        []string{"raw:p0", "raw:p1", "raw:p2"},
		UserProfileID: profileID,
	}
	if mutate != nil {
		mutate(&np)
	}
	return marchallObj(t, np)
}

func Test_performanceApi_create(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	app.createSeason(t, season.Season1)
	adminToken := getToken(t, admin)

	tests := []httpTest{
		{
			name: "Auth required", body: newPerformanceBody(t, prof.ID, nil),
			wantCode: http.StatusUnauthorized, wantMessage: errMissingToken,
		},
		{
			name: "Bad video url",
			body: newPerformanceBody(t, prof.ID, func(np *performance.NewPerformance) {
				np.VideoURL = "https://vimeo.com/123456"
			}),
			token: adminToken, wantCode: http.StatusBadRequest,
		},
		{
			name: "Bad duration",
			body: newPerformanceBody(t, prof.ID, func(np *performance.NewPerformance) {
				np.Duration = "three minutes"
			}),
			token: adminToken, wantCode: http.StatusBadRequest,
		},
		{
			name: "Unknown profile", body: newPerformanceBody(t, "64a000000000000000000000", nil),
			token: adminToken, wantCode: http.StatusNotFound, wantMessage: "The profile does not exist.",
		},
		{
			name: "OK", body: newPerformanceBody(t, prof.ID, nil), token: adminToken,
			wantCode: http.StatusCreated, wantMessage: "Performance added successfully",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := len(app.uploader.Deleted())

			req, rec := newAuthRequest(http.MethodPost, "/v1/performances", tt.token, tt.body)
			app.server.ServeHTTP(rec, req)
			checkCodeAndMessage(t, tt, rec)

			switch tt.wantCode {
			case http.StatusCreated:
				var created performance.Performance
				decodeData(t, rec, &created)
				if len(created.Images) != 3 {
					t.Errorf("images = %v; want 3 hosted urls", created.Images)
				}
			case http.StatusNotFound:
				// the images uploaded before the failed write get cleaned up
				app.waitDeletedCount(t, base+3)
			}
		})
	}
}

func Test_performanceApi_query(t *testing.T) {
	app := setup(t)

	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	app.createSeason(t, season.Season1)
	app.createSeason(t, season.Season2)
	app.createPerformance(t, prof.ID, season.Season1, 3)
	app.createPerformance(t, prof.ID, season.Season2, 3)
	app.createPerformance(t, prof.ID, season.Season2, 4)

	tests := []struct {
		name      string
		path      string
		wantCount int
	}{
		{name: "All", path: "/v1/performances", wantCount: 3},
		{name: "By season", path: "/v1/performances?seasonName=" + season.Season2, wantCount: 2},
		{name: "By profile", path: "/v1/performances/profile/" + prof.ID, wantCount: 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newRequest(http.MethodGet, tt.path) // public
			app.server.ServeHTTP(rec, req)
			if rec.Code != http.StatusOK {
				t.Fatalf("code = %v; want %v (body %s)", rec.Code, http.StatusOK, rec.Body.String())
			}

			var perfs []performance.Performance
			res := decodeData(t, rec, &perfs)
			if res.Message != "Performances retrieved successfully" {
				t.Errorf("message = %q", res.Message)
			}
			if len(perfs) != tt.wantCount {
				t.Errorf("listed %d performances; want %d", len(perfs), tt.wantCount)
			}
		})
	}
}

func Test_performanceApi_images(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	app.createSeason(t, season.Season1)
	p := app.createPerformance(t, prof.ID, season.Season1, 3)
	adminToken := getToken(t, admin)

	body := func(image string) []byte { return marchallObj(t, performance.ImageRef{Image: image}) }

	t.Run("Add", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/performances/addImage/"+p.ID, adminToken, body("raw:extra"))
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantMessage: "Image added successfully to the performance"}
		checkCodeAndMessage(t, tt, rec)

		var updated performance.Performance
		decodeData(t, rec, &updated)
		if len(updated.Images) != 4 {
			t.Errorf("images = %v; want 4", updated.Images)
		}
	})

	t.Run("Remove", func(t *testing.T) {
		target := p.Images[0]
		req, rec := newAuthRequest(http.MethodPatch, "/v1/performances/removeImage/"+p.ID, adminToken, body(target))
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusOK, wantMessage: "Image removed successfully from the performance."}
		checkCodeAndMessage(t, tt, rec)

		var updated performance.Performance
		decodeData(t, rec, &updated)
		if len(updated.Images) != 3 {
			t.Errorf("images = %v; want 3", updated.Images)
		}
		app.waitDeleted(t, target)
	})

	t.Run("Remove below the minimum", func(t *testing.T) {
		req, rec := newAuthRequest(http.MethodPatch, "/v1/performances/removeImage/"+p.ID, adminToken, body(p.Images[1]))
		app.server.ServeHTTP(rec, req)
		tt := httpTest{wantCode: http.StatusBadRequest, wantMessage: "Performance can not have less than 3 images"}
		checkCodeAndMessage(t, tt, rec)
	})
}

func Test_performanceApi_destroy(t *testing.T) {
	app := setup(t)

	admin := app.createUser(t, "Alice", "alice@test.cd", user.RoleAdmin, user.StatusActive, true)
	paul := app.createUser(t, "Paul", "paul@test.cd", user.RoleUser, user.StatusActive, true)
	prof := app.createProfile(t, paul.ID, "paulthegreat")
	app.createSeason(t, season.Season1)
	p := app.createPerformance(t, prof.ID, season.Season1, 3)

	req, rec := newAuthRequest(http.MethodDelete, "/v1/performances/"+p.ID, getToken(t, admin))
	app.server.ServeHTTP(rec, req)
	tt := httpTest{wantCode: http.StatusOK, wantMessage: "Performance deleted successfully"}
	checkCodeAndMessage(t, tt, rec)

	for _, url := range p.Images {
		app.waitDeleted(t, url)
	}
}
