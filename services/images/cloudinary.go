package imagesvc

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"path"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/aimelive/mcsa-awards/core"
	"github.com/aimelive/mcsa-awards/core/images"
)

type (
	// CloudinaryService hosts images on Cloudinary. Each upload is assigned
	// a random public id under the configured folder.
	CloudinaryService struct {
		client    *http.Client
		baseURL   string
		cloudName string
		apiKey    string
		apiSecret string
		folder    string
		logger    core.Logger
	}

	uploadResponse struct {
		SecureURL string `json:"secure_url"`
		Error     struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	destroyResponse struct {
		Result string `json:"result"`
		Error  struct {
			Message string `json:"message"`
		} `json:"error"`
	}
)

var _ images.Uploader = (*CloudinaryService)(nil)

func NewCloudinaryService(conf *core.Config, logger core.Logger) *CloudinaryService {
	return &CloudinaryService{
		client:    &http.Client{Timeout: 30 * time.Second},
		baseURL:   conf.ImageStore.BaseURL,
		cloudName: conf.ImageStore.CloudName,
		apiKey:    conf.ImageStore.ApiKey,
		apiSecret: conf.ImageStore.ApiSecret,
		folder:    conf.ImageStore.Folder,
		logger:    logger,
	}
}

func (svc *CloudinaryService) Upload(ctx context.Context, source string) (string, error) {
	if source == "" {
		return "", images.NewUploadError(images.UploadMissingFile, nil)
	}

	publicID := uuid.New().String()
	timestamp := strconv.FormatInt(time.Now().Unix(), 10)

	form := url.Values{}
	form.Set("file", source)
	form.Set("public_id", publicID)
	form.Set("folder", svc.folder)
	form.Set("timestamp", timestamp)
	form.Set("api_key", svc.apiKey)
	form.Set("signature", svc.sign(map[string]string{
		"folder":    svc.folder,
		"public_id": publicID,
		"timestamp": timestamp,
	}))

	var body uploadResponse
	status, err := svc.post(ctx, svc.endpoint("upload"), form, &body)
	if err != nil {
		return "", images.NewUploadError(images.UploadUnknown, err)
	}
	if status != http.StatusOK {
		return "", images.NewUploadError(reasonForStatus(status), errors.New(body.Error.Message))
	}
	return body.SecureURL, nil
}

func (svc *CloudinaryService) Delete(ctx context.Context, hostedURL string) error {
	publicID := publicIDFromURL(hostedURL)
	if publicID == "" {
		return errors.Errorf("no public id in url %q", hostedURL)
	}

	timestamp := strconv.FormatInt(time.Now().Unix(), 10)
	form := url.Values{}
	form.Set("public_id", publicID)
	form.Set("timestamp", timestamp)
	form.Set("api_key", svc.apiKey)
	form.Set("signature", svc.sign(map[string]string{
		"public_id": publicID,
		"timestamp": timestamp,
	}))

	var body destroyResponse
	status, err := svc.post(ctx, svc.endpoint("destroy"), form, &body)
	if err != nil {
		return errors.Wrap(err, "destroying image")
	}
	if status != http.StatusOK || body.Result != "ok" {
		return errors.Errorf("destroying image %q: status %d result %q %s",
			publicID, status, body.Result, body.Error.Message)
	}
	return nil
}

func (svc *CloudinaryService) endpoint(action string) string {
	return fmt.Sprintf("%s/%s/image/%s", svc.baseURL, svc.cloudName, action)
}

func (svc *CloudinaryService) post(ctx context.Context, endpoint string, form url.Values, out interface{}) (int, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	res, err := svc.client.Do(req)
	if err != nil {
		return 0, err
	}
	defer res.Body.Close()

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return res.StatusCode, err
	}
	return res.StatusCode, nil
}

// sign builds the request signature: the sorted params joined with "&",
// concatenated with the api secret and hashed with SHA-1.
func (svc *CloudinaryService) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	pairs := make([]string, 0, len(keys))
	for _, k := range keys {
		pairs = append(pairs, k+"="+params[k])
	}
	sum := sha1.Sum([]byte(strings.Join(pairs, "&") + svc.apiSecret))
	return hex.EncodeToString(sum[:])
}

func reasonForStatus(status int) images.UploadReason {
	switch status {
	case http.StatusBadRequest:
		return images.UploadBadFormat
	case http.StatusUnauthorized, http.StatusForbidden:
		return images.UploadUnauthorized
	case http.StatusNotFound:
		return images.UploadNotFound
	default:
		return images.UploadUnknown
	}
}

// publicIDFromURL extracts the "<folder>/<id>" public id from a hosted
// delivery url, eg.
// https://res.cloudinary.com/demo/image/upload/v123/Folder/abc.png -> Folder/abc
func publicIDFromURL(hostedURL string) string {
	u, err := url.Parse(hostedURL)
	if err != nil {
		return ""
	}
	parts := strings.Split(strings.Trim(u.Path, "/"), "/")
	for i, part := range parts {
		if part != "upload" {
			continue
		}
		rest := parts[i+1:]
		// skip the version segment
		if len(rest) > 0 && strings.HasPrefix(rest[0], "v") {
			if _, err := strconv.Atoi(rest[0][1:]); err == nil {
				rest = rest[1:]
			}
		}
		if len(rest) == 0 {
			return ""
		}
		id := strings.Join(rest, "/")
		return strings.TrimSuffix(id, path.Ext(id))
	}
	return ""
}
