// Package services – PersistenceService
//
// This file implements PersistenceService, which turns an in-memory
// GenerationResult into a durable Reading row: every image reference is
// resolved to bytes, uploaded to the blob store and replaced by its URL,
// visibility and anonymity are resolved, and one row is written.
//
// Save never returns an error. Any failure is logged, counted and reported
// as ("", false); the caller keeps the in-memory result either way.
package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/dossbaby/dream-storybook-sub001/internal/blob"
	"github.com/dossbaby/dream-storybook-sub001/internal/domain"
	"github.com/dossbaby/dream-storybook-sub001/internal/media"
	"github.com/dossbaby/dream-storybook-sub001/internal/observability"
	"github.com/dossbaby/dream-storybook-sub001/internal/repo"
)

// Saver persists generation results. It is implemented by
// *PersistenceService and faked in tests.
type Saver interface {
	Save(ctx context.Context, userID, displayName string, result *domain.GenerationResult, opt domain.VisibilityOption) (id string, ok bool)
}

// PersistenceService writes generation results to the database.
type PersistenceService struct {
	DB    *gorm.DB
	Blobs blob.Store
	Media *media.Registry

	// Now is the server clock used for CreatedAt and blob paths.
	Now func() time.Time
	// SavedImageGrace is how long a media handle keeps resolving after its
	// image has been uploaded, so responses already sent stay renderable.
	SavedImageGrace time.Duration
}

// DefaultSavedImageGrace bounds handle lifetime after a successful save.
const DefaultSavedImageGrace = 10 * time.Minute

// NewPersistenceService constructs a PersistenceService on the wall clock.
func NewPersistenceService(db *gorm.DB, blobs blob.Store, reg *media.Registry) *PersistenceService {
	return &PersistenceService{DB: db, Blobs: blobs, Media: reg, Now: time.Now, SavedImageGrace: DefaultSavedImageGrace}
}

// Save stores result for userID and returns the new reading id.
func (s *PersistenceService) Save(ctx context.Context, userID, displayName string, result *domain.GenerationResult, opt domain.VisibilityOption) (string, bool) {
	ctx, span := otel.Tracer("services/PersistenceService").Start(ctx, "Save",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	log := zerolog.Ctx(ctx)
	if result == nil || !result.Kind.Valid() {
		log.Warn().Msg("save skipped: no result")
		return "", false
	}
	kind := string(result.Kind)
	if strings.TrimSpace(userID) == "" {
		observability.Saves.WithLabelValues(kind, observability.OutcomeSkipped).Inc()
		log.Warn().Str("kind", kind).Msg("save skipped: anonymous user")
		return "", false
	}

	id, handles, err := s.save(ctx, userID, strings.TrimSpace(displayName), result, opt)
	if err != nil {
		span.RecordError(err)
		observability.Saves.WithLabelValues(kind, observability.OutcomeFailed).Inc()
		log.Warn().Err(err).Str("kind", kind).Msg("reading not saved")
		return "", false
	}
	// Ephemeral images now have durable copies.
	for _, h := range handles {
		s.Media.Retire(h, s.SavedImageGrace)
	}
	observability.Saves.WithLabelValues(kind, observability.OutcomeOK).Inc()
	span.SetAttributes(attribute.String("reading.id", id))
	return id, true
}

func (s *PersistenceService) save(ctx context.Context, userID, displayName string, result *domain.GenerationResult, opt domain.VisibilityOption) (string, []string, error) {
	now := s.now()
	images, handles, err := s.uploadImages(ctx, userID, now, result)
	if err != nil {
		return "", nil, err
	}

	vis, isPublic, isAnonymous := opt.Resolve()
	shownName := displayName
	if isAnonymous {
		shownName = result.Kind.AnonymousName()
	}

	sections := result.Sections
	if sections == nil {
		sections = map[string]string{}
	}
	r := &domain.Reading{
		ID:                   uuid.NewString(),
		Kind:                 result.Kind,
		OwnerID:              userID,
		DisplayName:          shownName,
		OwnerName:            displayName,
		Title:                result.Title,
		Verdict:              result.Verdict,
		Summary:              result.Summary,
		Input:                result.Input,
		Keywords:             datatypes.JSONSlice[domain.Keyword](result.Keywords),
		Sections:             datatypes.NewJSONType(sections),
		DetailedAnalysis:     result.DetailedAnalysis,
		CharacterDescription: result.CharacterDescription,
		Cards:                datatypes.JSONSlice[domain.CardRef](result.Cards),
		ConclusionCard:       datatypes.NewJSONType(result.ConclusionCard),
		Category:             result.Category,
		Images:               datatypes.NewJSONType(images),
		Visibility:           vis,
		IsPublic:             isPublic,
		IsAnonymous:          isAnonymous,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := repo.CreateReading(ctx, s.DB, r); err != nil {
		return "", nil, fmt.Errorf("write reading: %w", err)
	}
	return r.ID, handles, nil
}

// uploadImages resolves every slot of result's kind. Nil slots stay nil,
// durable URLs pass through, and ephemeral handles or data URLs are
// uploaded. It returns the media handles that were consumed.
func (s *PersistenceService) uploadImages(ctx context.Context, userID string, now time.Time, result *domain.GenerationResult) (domain.ImageSet, []string, error) {
	out := make(domain.ImageSet)
	var handles []string
	for _, slot := range result.Kind.Slots() {
		ref := result.Images[slot]
		if ref == nil || strings.TrimSpace(*ref) == "" {
			out[slot] = nil
			continue
		}

		var dataURL string
		switch v := strings.TrimSpace(*ref); {
		case media.IsHandle(v):
			if s.Media == nil {
				return nil, nil, fmt.Errorf("slot %s: no media registry", slot)
			}
			img, ok := s.Media.Get(v)
			if !ok {
				return nil, nil, fmt.Errorf("slot %s: image handle expired", slot)
			}
			dataURL = blob.EncodeDataURL(img.MIME, img.Data)
			handles = append(handles, v)
		case blob.IsDataURL(v):
			mime, data, err := blob.DecodeDataURL(v)
			if err != nil {
				return nil, nil, fmt.Errorf("slot %s: %w", slot, err)
			}
			dataURL = blob.EncodeDataURL(mime, data)
		case s.durableURL(v):
			durable := v
			out[slot] = &durable
			continue
		default:
			return nil, nil, fmt.Errorf("slot %s: %w", slot, ErrUnsupportedImageRef)
		}

		stored, err := s.Blobs.Put(ctx, blob.ObjectPath(result.Kind, userID, now, slot), dataURL)
		if err != nil {
			return nil, nil, fmt.Errorf("upload %s: %w", slot, err)
		}
		out[slot] = &stored
	}
	return out, handles, nil
}

// durableURL accepts absolute http(s) URLs and URLs the blob store serves.
func (s *PersistenceService) durableURL(v string) bool {
	if o, ok := s.Blobs.(blob.Owner); ok && o.Owns(v) {
		return true
	}
	u, err := url.Parse(v)
	if err != nil {
		return false
	}
	return (u.Scheme == "http" || u.Scheme == "https") && u.Host != ""
}

func (s *PersistenceService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
