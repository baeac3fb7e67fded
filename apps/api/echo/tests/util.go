package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	. "github.com/aimelive/mcsa-awards/apps/api/echo"
	"github.com/aimelive/mcsa-awards/core/activity"
	"github.com/aimelive/mcsa-awards/core/award"
	"github.com/aimelive/mcsa-awards/core/images"
	"github.com/aimelive/mcsa-awards/core/performance"
	"github.com/aimelive/mcsa-awards/core/profile"
	"github.com/aimelive/mcsa-awards/core/season"
	"github.com/aimelive/mcsa-awards/core/user"
	emailsvc "github.com/aimelive/mcsa-awards/services/email"
	imagesvc "github.com/aimelive/mcsa-awards/services/images"
	dummydb "github.com/aimelive/mcsa-awards/storage/database/dummy"
)

const testPassword = "VerySecret123!"

var errMissingToken = "Authentication token is missing, please login to continue."

func accessDenied(role string) string {
	return fmt.Sprintf("Access denied, you must be %s to perform this action", role)
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// testApp wires a Server over in-memory repositories and a recording image
// store, with the cleanup consumer running until the test ends.
type testApp struct {
	server   Server
	uploader *imagesvc.DummyService

	usrRepo    user.Repository
	profRepo   user.ProfileRepository
	seasonRepo season.Repository
	actRepo    activity.Repository
	perfRepo   performance.Repository
	awardRepo  award.Repository
}

func setup(t *testing.T) *testApp {
	t.Helper()

	db, err := dummydb.Open()
	if err != nil {
		t.Fatalf("dummydb.Open() failed: %v", err)
	}

	a := &testApp{
		uploader:   imagesvc.NewDummyService(),
		usrRepo:    dummydb.NewUserRepository(db),
		profRepo:   dummydb.NewProfileRepository(db),
		seasonRepo: dummydb.NewSeasonRepository(db),
		actRepo:    dummydb.NewActivityRepository(db),
		perfRepo:   dummydb.NewPerformanceRepository(db),
		awardRepo:  dummydb.NewAwardRepository(db),
	}

	logger := nopLogger{}
	queue := images.NewChannelQueue(64, logger)
	lc := images.NewLifecycle(a.uploader, queue)
	consumer := images.NewConsumer(a.uploader, queue, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go consumer.Run(ctx)
	t.Cleanup(func() {
		cancel()
		consumer.Wait()
	})

	mailSvc := emailsvc.NewConsoleServiceMock()
	a.server = NewServer(&Options{
		DisableReqLogs: true,
		Logger:         logger,
		UserSvc:        user.NewService(a.usrRepo, lc, mailSvc),
		ProfileSvc:     user.NewProfileService(a.profRepo, lc),
		SeasonSvc:      season.NewService(a.seasonRepo),
		ActivitySvc:    activity.NewService(a.actRepo, lc),
		PerformanceSvc: performance.NewService(a.perfRepo, lc),
		AwardSvc:       award.NewService(a.awardRepo, lc),
	})
	return a
}

type httpTest struct {
	name        string
	method      string
	path        string
	body        []byte
	token       string
	wantCode    int
	wantMessage string
	extra       interface{}
}

func newAuthRequest(method, path, token string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	var body bytes.Buffer
	if len(data) > 0 {
		body.Write(data[0])
	}
	req := httptest.NewRequest(method, path, &body)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	return req, rec
}

func newRequest(method, path string, data ...[]byte) (*http.Request, *httptest.ResponseRecorder) {
	return newAuthRequest(method, path, "", data...)
}

func getToken(t *testing.T, usr user.User) string {
	t.Helper()
	token, err := GenerateToken(GetUserClaims(usr))
	if err != nil {
		t.Fatalf("getToken() failed: %v", err)
	}
	return token
}

func marchallObj(t *testing.T, obj interface{}) []byte {
	t.Helper()
	data, err := json.Marshal(obj)
	if err != nil {
		t.Fatalf("marchallObj() failed: %v", err)
	}
	return data
}

// apiResponse is the envelope every endpoint answers with; Data is kept raw
// so each test can decode the part it cares about.
type apiResponse struct {
	Message string          `json:"message"`
	Count   *int            `json:"_count"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) apiResponse {
	t.Helper()
	var res apiResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &res); err != nil {
		t.Fatalf("decoding response %q failed: %v", rec.Body.String(), err)
	}
	return res
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, dst interface{}) apiResponse {
	t.Helper()
	res := decodeResponse(t, rec)
	if err := json.Unmarshal(res.Data, dst); err != nil {
		t.Fatalf("decoding response data %q failed: %v", res.Data, err)
	}
	return res
}

func checkCodeAndMessage(t *testing.T, tt httpTest, rec *httptest.ResponseRecorder) {
	t.Helper()
	if rec.Code != tt.wantCode {
		t.Errorf("failed! code = %v; wantCode %v (body %s)", rec.Code, tt.wantCode, rec.Body.String())
	}
	if tt.wantMessage != "" {
		if got := decodeResponse(t, rec).Message; got != tt.wantMessage {
			t.Errorf("failed! message = %q; wantMessage %q", got, tt.wantMessage)
		}
	}
}

// --- fixtures; created through the repositories the way the admin CLI does ---

func (a *testApp) createUser(t *testing.T, firstName, email, role, status string, verified bool) user.User {
	t.Helper()
	now := time.Now().UTC()
	usr := user.User{
		FirstName: firstName,
		Email:     email,
		Role:      role,
		Status:    status,
		Verified:  verified,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := usr.SetPassword(testPassword); err != nil {
		t.Fatalf("SetPassword() failed: %v", err)
	}
	created, err := a.usrRepo.CreateUser(context.Background(), usr)
	if err != nil {
		t.Fatalf("createUser(%s) failed: %v", email, err)
	}
	return created
}

// upload stores a raw source on the fake image store and returns the hosted url.
func (a *testApp) upload(t *testing.T, source string) string {
	t.Helper()
	url, err := a.uploader.Upload(context.Background(), source)
	if err != nil {
		t.Fatalf("upload(%s) failed: %v", source, err)
	}
	return url
}

func (a *testApp) createProfile(t *testing.T, userID, username string) profile.Profile {
	t.Helper()
	now := time.Now().UTC()
	created, err := a.profRepo.CreateProfile(context.Background(), profile.Profile{
		Username:   username,
		Bio:        "A short bio worth reading",
		ProfilePic: a.upload(t, "raw:"+username),
		UserID:     userID,
		CreatedAt:  now,
		UpdatedAt:  now,
	})
	if err != nil {
		t.Fatalf("createProfile(%s) failed: %v", username, err)
	}
	return created
}

func (a *testApp) createSeason(t *testing.T, name string) season.Season {
	t.Helper()
	now := time.Now().UTC()
	created, err := a.seasonRepo.CreateSeason(context.Background(), season.Season{
		Name:      name,
		Date:      now,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		t.Fatalf("createSeason(%s) failed: %v", name, err)
	}
	return created
}

func (a *testApp) createActivity(t *testing.T, profileID string, imageCount int) activity.Activity {
	t.Helper()
	urls := make([]string, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		urls = append(urls, a.upload(t, fmt.Sprintf("raw:act-%d", i)))
	}
	now := time.Now().UTC()
	created, err := a.actRepo.CreateActivity(context.Background(), activity.Activity{
		Title:         "A memorable school activity title",
		Caption:       "A caption long enough to describe what happened during this school activity.",
		Images:        urls,
		UserProfileID: profileID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("createActivity() failed: %v", err)
	}
	return created
}

func (a *testApp) createPerformance(t *testing.T, profileID, seasonName string, imageCount int) performance.Performance {
	t.Helper()
	urls := make([]string, 0, imageCount)
	for i := 0; i < imageCount; i++ {
		urls = append(urls, a.upload(t, fmt.Sprintf("raw:perf-%d", i)))
	}
	now := time.Now().UTC()
	created, err := a.perfRepo.CreatePerformance(context.Background(), performance.Performance{
		Title:         "An unforgettable live stage performance",
		Description:   "A description long enough to cover what the audience saw during this performance.",
		SeasonName:    seasonName,
		VideoURL:      "https://youtube.com/watch?v=dQw4w9WgXcQ",
		Duration:      "03:45",
		Images:        urls,
		UserProfileID: profileID,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		t.Fatalf("createPerformance() failed: %v", err)
	}
	return created
}

func (a *testApp) createAward(t *testing.T, profileID, seasonName string, downloadsLeft int) award.Award {
	t.Helper()
	now := time.Now().UTC()
	created, err := a.awardRepo.CreateAward(context.Background(), award.Award{
		Title:                "Best upcoming artist of the year",
		Caption:              "Awarded for an outstanding run of performances across the whole of this season.",
		Category:             award.CategorySinger,
		UserProfileID:        profileID,
		SeasonName:           seasonName,
		FeaturedPhoto:        a.upload(t, "raw:award"),
		CertificateDownloads: downloadsLeft,
		CreatedAt:            now,
		UpdatedAt:            now,
	})
	if err != nil {
		t.Fatalf("createAward() failed: %v", err)
	}
	return created
}

// waitDeleted blocks until the consumer has removed hostedURL from the store.
func (a *testApp) waitDeleted(t *testing.T, hostedURL string) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if !a.uploader.Hosted(hostedURL) {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("hosted url %q was not cleaned up", hostedURL)
}

// waitDeletedCount blocks until the consumer has removed at least n objects.
func (a *testApp) waitDeletedCount(t *testing.T, n int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(a.uploader.Deleted()) >= n {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Errorf("deleted = %v; want at least %d cleaned up", a.uploader.Deleted(), n)
}
