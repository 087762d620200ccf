package application

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esapi"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/danisatya/asset-management-api/internal/domain/entity"
	repo "github.com/danisatya/asset-management-api/internal/domain/repository"
	"github.com/danisatya/asset-management-api/pkg/cache"
	"github.com/danisatya/asset-management-api/pkg/helpers"
)

var (
	ErrAssetNotFound      = errors.New("asset not found")
	ErrSerialNumberTaken  = errors.New("serial number already exists")
	ErrUpstreamDependency = errors.New("upstream dependency failed")
)

const (
	listCacheNamespace = "assets:list"
	itemCacheNamespace = "assets"
	maxListLimit       = 500
)

// AssetService orchestrates asset CRUD against the store and drives cache
// invalidation on every mutation. Invalidation is synchronous: it runs in the
// same request as the mutation, before the response is returned.
type AssetService struct {
	Repo          repo.AssetRepository
	Cache         Cache
	ListTTL       time.Duration
	Vision        Captioner
	GCS           *storage.Client
	GCSBucket     string
	ES            *elasticsearch.Client
	ESAssetsIndex string
	Logger        *logrus.Logger
}

func NewAssetService(r repo.AssetRepository, c Cache, listTTL time.Duration, vision Captioner, gcs *storage.Client, gcsBucket string, es *elasticsearch.Client, esAssetsIndex string, logger *logrus.Logger) *AssetService {
	if listTTL <= 0 {
		listTTL = time.Minute
	}
	return &AssetService{
		Repo:          r,
		Cache:         c,
		ListTTL:       listTTL,
		Vision:        vision,
		GCS:           gcs,
		GCSBucket:     gcsBucket,
		ES:            es,
		ESAssetsIndex: esAssetsIndex,
		Logger:        logger,
	}
}

type CreateAssetInput struct {
	Name          string
	AssetType     string
	SerialNumber  string
	Status        string
	AssignedTo    *string
	PurchaseDate  *time.Time
	PurchasePrice *float64
	Description   *string
}

// UpdateAssetInput carries a partial update: nil fields are left untouched.
type UpdateAssetInput struct {
	Name          *string
	AssetType     *string
	SerialNumber  *string
	Status        *string
	AssignedTo    *string
	PurchaseDate  *time.Time
	PurchasePrice *float64
	Description   *string
}

func listKey(skip, limit int) string {
	return cache.Key(listCacheNamespace, nil, map[string]any{"skip": skip, "limit": limit})
}

func itemKey(id string) string {
	return cache.Key(itemCacheNamespace, nil, map[string]any{"asset_id": id})
}

// invalidate drops every cached listing page, and the single-item entry when
// the mutation targeted one id.
func (s *AssetService) invalidate(ctx context.Context, id string) {
	s.Cache.InvalidatePattern(ctx, listCacheNamespace+":*")
	if id != "" {
		s.Cache.Delete(ctx, itemKey(id))
	}
}

func (s *AssetService) Create(ctx context.Context, in CreateAssetInput) (*entity.Asset, error) {
	status := in.Status
	if status == "" {
		status = "active"
	}
	a := &entity.Asset{
		Name:          in.Name,
		AssetType:     in.AssetType,
		SerialNumber:  in.SerialNumber,
		Status:        status,
		AssignedTo:    in.AssignedTo,
		PurchaseDate:  in.PurchaseDate,
		PurchasePrice: in.PurchasePrice,
		Description:   in.Description,
	}
	if err := s.Repo.Create(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSerialNumberTaken
		}
		return nil, err
	}

	s.invalidate(ctx, "")
	s.indexAsset(ctx, a)
	return a, nil
}

// List serves listing pages through the read-through cache. The cached page
// and the store page are the same Go value, so a hit and a miss serialize
// identically and the caller cannot tell them apart.
func (s *AssetService) List(ctx context.Context, skip, limit int) ([]entity.Asset, error) {
	if skip < 0 {
		skip = 0
	}
	if limit <= 0 {
		limit = 100
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}

	key := listKey(skip, limit)

	var cached []entity.Asset
	if s.Cache.Get(ctx, key, &cached) {
		return cached, nil
	}

	assets, err := s.Repo.List(ctx, skip, limit)
	if err != nil {
		return nil, err
	}
	s.Cache.Set(ctx, key, assets, s.ListTTL)
	return assets, nil
}

// Get always reads the store directly; single-asset reads are not cached.
func (s *AssetService) Get(ctx context.Context, id string) (*entity.Asset, error) {
	a, err := s.Repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}
	return a, nil
}

func (s *AssetService) Update(ctx context.Context, id string, in UpdateAssetInput) (*entity.Asset, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if in.Name != nil {
		a.Name = *in.Name
	}
	if in.AssetType != nil {
		a.AssetType = *in.AssetType
	}
	if in.SerialNumber != nil {
		a.SerialNumber = *in.SerialNumber
	}
	if in.Status != nil {
		a.Status = *in.Status
	}
	if in.AssignedTo != nil {
		a.AssignedTo = in.AssignedTo
	}
	if in.PurchaseDate != nil {
		a.PurchaseDate = in.PurchaseDate
	}
	if in.PurchasePrice != nil {
		a.PurchasePrice = in.PurchasePrice
	}
	if in.Description != nil {
		a.Description = in.Description
	}

	if err := s.Repo.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return nil, ErrSerialNumberTaken
		}
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, a.ID)
	s.indexAsset(ctx, a)
	return a, nil
}

func (s *AssetService) Delete(ctx context.Context, id string) error {
	if err := s.Repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return ErrAssetNotFound
		}
		return err
	}

	s.invalidate(ctx, id)
	s.deindexAsset(ctx, id)
	return nil
}

// UploadImage captions the image and saves the description on the asset. The
// caption call happens before any mutation, so a collaborator failure leaves
// the record untouched. When GCS is configured the original image is stored
// and its public URL recorded alongside the description.
func (s *AssetService) UploadImage(ctx context.Context, id string, image []byte, format string) (*entity.Asset, error) {
	a, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	desc, err := s.Vision.Describe(ctx, image, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamDependency, err)
	}

	if url := s.uploadImageToGCS(ctx, a.ID, image, format); url != "" {
		a.ImageURL = &url
	}
	a.Description = &desc

	if err := s.Repo.Update(ctx, a); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, ErrAssetNotFound
		}
		return nil, err
	}

	s.invalidate(ctx, a.ID)
	s.indexAsset(ctx, a)
	return a, nil
}

// uploadImageToGCS is best-effort; a storage failure never blocks captioning.
func (s *AssetService) uploadImageToGCS(ctx context.Context, assetID string, image []byte, format string) string {
	if s.GCS == nil || s.GCSBucket == "" {
		return ""
	}
	ext := "png"
	contentType := "image/png"
	if f := strings.ToLower(format); f == "jpg" || f == "jpeg" {
		ext = "jpg"
		contentType = "image/jpeg"
	}
	objectPath := "assets/" + assetID + "/" + uuid.NewString() + "." + ext
	url, err := helpers.UploadObject(ctx, s.GCS, s.GCSBucket, objectPath, contentType, strings.NewReader(string(image)))
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("asset_id", assetID).Warn("gcs upload failed")
		}
		return ""
	}
	return url
}

func (s *AssetService) indexAsset(ctx context.Context, a *entity.Asset) {
	if s.ES == nil || s.ESAssetsIndex == "" {
		return
	}
	b, _ := json.Marshal(a)
	req := esapi.IndexRequest{Index: s.ESAssetsIndex, DocumentID: a.ID, Body: strings.NewReader(string(b)), Refresh: "false"}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("asset_id", a.ID).Warn("es index failed")
		}
		return
	}
	defer func() { _ = res.Body.Close() }()
	if res.IsError() && s.Logger != nil {
		s.Logger.WithField("status", res.Status()).WithField("asset_id", a.ID).Warn("es index response error")
	}
}

func (s *AssetService) deindexAsset(ctx context.Context, id string) {
	if s.ES == nil || s.ESAssetsIndex == "" {
		return
	}
	req := esapi.DeleteRequest{Index: s.ESAssetsIndex, DocumentID: id}
	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	res, err := req.Do(c, s.ES)
	if err != nil {
		if s.Logger != nil {
			s.Logger.WithError(err).WithField("asset_id", id).Warn("es delete failed")
		}
		return
	}
	_ = res.Body.Close()
}

// Search performs a multi_match query over name, serial number and description.
func (s *AssetService) Search(ctx context.Context, q string, size int) ([]map[string]any, error) {
	if s.ES == nil || s.ESAssetsIndex == "" {
		return []map[string]any{}, nil
	}
	if size <= 0 || size > 50 {
		size = 10
	}
	query := map[string]any{
		"query": map[string]any{
			"multi_match": map[string]any{
				"query":  q,
				"fields": []string{"serial_number^2", "name", "description"},
			},
		},
		"size": size,
	}
	b, _ := json.Marshal(query)

	c, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	res, err := s.ES.Search(s.ES.Search.WithContext(c), s.ES.Search.WithIndex(s.ESAssetsIndex), s.ES.Search.WithBody(strings.NewReader(string(b))))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamDependency, err)
	}
	defer func() { _ = res.Body.Close() }()

	var parsed struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstreamDependency, err)
	}

	out := make([]map[string]any, 0, len(parsed.Hits.Hits))
	for _, h := range parsed.Hits.Hits {
		out = append(out, h.Source)
	}
	return out, nil
}
