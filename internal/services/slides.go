package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Lllllllleong/slidesmcp/internal/errinfo"
	"github.com/Lllllllleong/slidesmcp/internal/gcp"
	"github.com/Lllllllleong/slidesmcp/internal/models"
	"google.golang.org/api/slides/v1"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// Deck is the transport to the presentation service: one full read, and
// one atomic batch of primitive requests.
type Deck interface {
	Read(ctx context.Context, presentationID string) (*slides.Presentation, error)
	BatchWrite(ctx context.Context, presentationID string, requests []*slides.Request) (*slides.BatchUpdatePresentationResponse, error)
}

// PresentationLister finds presentations by name.
type PresentationLister interface {
	ListPresentations(ctx context.Context, nameContains string, limit int) ([]models.PresentationFile, error)
}

// SlidesConfig holds all configuration for the slides service.
type SlidesConfig struct {
	ClientSecretPath      string
	TokenLocation         string
	Interactive           bool
	UseDefaultCredentials bool
	CallbackTimeout       time.Duration
	HTTPTimeout           time.Duration
	ProjectID             string
	AuditCollection       string
}

// SlidesFunction holds the dependencies of every tool.
type SlidesFunction struct {
	deck     Deck
	lister   PresentationLister
	recorder Recorder
	logger   *slog.Logger
	closers  []func() error
}

// loadConfig loads and validates all necessary environment variables for this service.
func loadConfig() (*SlidesConfig, error) {
	config := &SlidesConfig{
		ClientSecretPath:      gcp.GetEnv("OAUTH_CLIENT_SECRET", ""),
		TokenLocation:         gcp.GetEnv("OAUTH_CLIENT_TOKEN", ""),
		Interactive:           gcp.GetEnvBool("OAUTH_INTERACTIVE", true),
		UseDefaultCredentials: gcp.GetEnvBool("USE_DEFAULT_CREDENTIALS", false),
		CallbackTimeout:       gcp.GetEnvDuration("OAUTH_CALLBACK_TIMEOUT", 5*time.Minute),
		HTTPTimeout:           gcp.GetEnvDuration("SLIDES_HTTP_TIMEOUT", 60*time.Second),
		ProjectID:             gcp.GetEnv("PROJECT_ID", ""),
		AuditCollection:       gcp.GetEnv("AUDIT_COLLECTION", ""),
	}
	if !config.UseDefaultCredentials {
		if config.ClientSecretPath == "" {
			return nil, fmt.Errorf("OAUTH_CLIENT_SECRET environment variable not set")
		}
		if config.TokenLocation == "" {
			return nil, fmt.Errorf("OAUTH_CLIENT_TOKEN environment variable not set")
		}
	}
	if config.AuditCollection != "" && config.ProjectID == "" {
		return nil, fmt.Errorf("PROJECT_ID must be set when AUDIT_COLLECTION is set")
	}
	return config, nil
}

// NewSlidesFunction creates a SlidesFunction from the environment. recorder
// receives audit events; Firestore auditing is added when configured.
func NewSlidesFunction(ctx context.Context, recorder Recorder) (*SlidesFunction, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	var closers []func() error
	var provider gcp.CapabilityProvider
	if config.UseDefaultCredentials {
		provider = &gcp.DefaultProvider{HTTPTimeout: config.HTTPTimeout}
	} else {
		tokens, closeTokens, err := gcp.NewTokenStore(ctx, config.TokenLocation)
		if err != nil {
			return nil, fmt.Errorf("failed to create token store: %w", err)
		}
		closers = append(closers, closeTokens)
		provider = gcp.NewOAuthProvider(gcp.AuthConfig{
			ClientSecretPath: config.ClientSecretPath,
			Tokens:           tokens,
			Interactive:      config.Interactive,
			CallbackTimeout:  config.CallbackTimeout,
			HTTPTimeout:      config.HTTPTimeout,
		})
	}

	if config.AuditCollection != "" {
		firestoreClient, err := gcp.NewFirestoreClient(ctx, config.ProjectID)
		if err != nil {
			return nil, fmt.Errorf("failed to create firestore client: %w", err)
		}
		audit := gcp.NewFirestoreAuditWriter(firestoreClient, config.AuditCollection)
		closers = append(closers, audit.Close)
		recorder = MultiRecorder{recorder, audit}
	}

	f := New(gcp.NewSlidesClient(provider), gcp.NewDriveClient(provider), recorder)
	f.closers = closers
	slog.Info("Slides service initialized.", "defaultCredentials", config.UseDefaultCredentials, "auditCollection", config.AuditCollection)
	return f, nil
}

// New wires a SlidesFunction from explicit dependencies. A nil recorder
// discards events.
func New(deck Deck, lister PresentationLister, recorder Recorder) *SlidesFunction {
	if recorder == nil {
		recorder = NopRecorder{}
	}
	return &SlidesFunction{
		deck:     deck,
		lister:   lister,
		recorder: recorder,
		logger:   slog.Default(),
	}
}

// Close releases clients created by NewSlidesFunction.
func (f *SlidesFunction) Close() error {
	var errs []error
	for _, c := range f.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// fetch reads the whole presentation.
func (f *SlidesFunction) fetch(ctx context.Context, tool, presentationID string) (*slides.Presentation, error) {
	if strings.TrimSpace(presentationID) == "" {
		return nil, f.fail(tool, errinfo.InvalidParams("", "presentationId is required"))
	}
	presentation, err := f.deck.Read(ctx, presentationID)
	if err != nil {
		return nil, f.fail(tool, err)
	}
	f.recorder.Record(models.AuditEvent{
		Name:           models.EventFetch,
		Tool:           tool,
		PresentationID: presentationID,
		CreatedAt:      time.Now(),
	})
	return presentation, nil
}

// slideAt returns the 1-indexed slide or OutOfRange.
func (f *SlidesFunction) slideAt(tool string, p *slides.Presentation, presentationID string, slideNumber int) (*slides.Page, error) {
	if slideNumber < 1 || slideNumber > len(p.Slides) || p.Slides[slideNumber-1] == nil {
		return nil, f.fail(tool, errinfo.OutOfRange(presentationID, slideNumber, len(p.Slides)))
	}
	return p.Slides[slideNumber-1], nil
}

// write submits one atomic batch and records it.
func (f *SlidesFunction) write(ctx context.Context, tool, presentationID string, slideNumber int, requests []*slides.Request) (*slides.BatchUpdatePresentationResponse, error) {
	resp, err := f.deck.BatchWrite(ctx, presentationID, requests)
	if err != nil {
		return nil, f.fail(tool, err)
	}
	f.recorder.Record(models.AuditEvent{
		Name:           models.EventBatchWrite,
		Tool:           tool,
		PresentationID: presentationID,
		SlideNumber:    slideNumber,
		RequestCount:   len(requests),
		CreatedAt:      time.Now(),
	})
	return resp, nil
}

// fail records a failed call and returns err unchanged in kind.
func (f *SlidesFunction) fail(tool string, err error) error {
	ev := models.AuditEvent{
		Name:         models.EventToolFailed,
		Tool:         tool,
		ErrorCode:    string(errinfo.KindOf(err)),
		ErrorDetails: err.Error(),
		CreatedAt:    time.Now(),
	}
	var ie *errinfo.Error
	if errors.As(err, &ie) {
		ev.PresentationID = ie.PresentationID
		ev.SlideNumber = ie.SlideNumber
		ev.ElementID = ie.ElementID
	} else {
		err = errinfo.TransportFailure("", err)
	}
	f.recorder.Record(ev)
	return err
}

// Overview summarizes every slide of a presentation.
func (f *SlidesFunction) Overview(ctx context.Context, req *models.OverviewRequest) (*models.OverviewResponse, error) {
	const tool = "get_presentation_overview"
	logCtx := f.logger.With("presentationId", req.PresentationID)
	logCtx.Debug("Getting overview.")

	presentation, err := f.fetch(ctx, tool, req.PresentationID)
	if err != nil {
		return nil, err
	}
	resp := summarize(presentation)
	logCtx.Debug("Overview complete.", "slideCount", resp.SlideCount)
	return resp, nil
}

// GetSlide returns the flattened elements of one slide.
func (f *SlidesFunction) GetSlide(ctx context.Context, req *models.GetSlideRequest) (*models.SlideResponse, error) {
	const tool = "get_slide"
	logCtx := f.logger.With("presentationId", req.PresentationID, "slideNumber", req.SlideNumber)

	presentation, err := f.fetch(ctx, tool, req.PresentationID)
	if err != nil {
		return nil, err
	}
	page, err := f.slideAt(tool, presentation, req.PresentationID, req.SlideNumber)
	if err != nil {
		return nil, err
	}
	elements := flattenSlide(page)
	logCtx.Debug("Retrieved slide.", "elementCount", len(elements))
	return &models.SlideResponse{
		Num:      req.SlideNumber,
		ID:       page.ObjectId,
		Elements: elements,
	}, nil
}

// UpdateText replaces the text of one element, keeping the formatting of
// its first character.
func (f *SlidesFunction) UpdateText(ctx context.Context, req *models.UpdateTextRequest) (*models.UpdateTextResponse, error) {
	const tool = "update_text"
	updates := []models.TextUpdate{{ID: req.ElementID, Text: req.Text}}
	if err := f.applyTextUpdates(ctx, tool, req.PresentationID, req.SlideNumber, updates); err != nil {
		return nil, err
	}
	return &models.UpdateTextResponse{Success: true}, nil
}

// ReplaceElements replaces the text of several elements in one batch.
// Either every update applies or none does.
func (f *SlidesFunction) ReplaceElements(ctx context.Context, req *models.ReplaceElementsRequest) (*models.ReplaceElementsResponse, error) {
	const tool = "replace_slide_elements"
	if err := f.applyTextUpdates(ctx, tool, req.PresentationID, req.SlideNumber, req.Elements); err != nil {
		return nil, err
	}
	return &models.ReplaceElementsResponse{Success: true, Updated: len(req.Elements)}, nil
}

func (f *SlidesFunction) applyTextUpdates(ctx context.Context, tool, presentationID string, slideNumber int, updates []models.TextUpdate) error {
	logCtx := f.logger.With("presentationId", presentationID, "slideNumber", slideNumber)
	logCtx.Debug("Updating text.", "elementCount", len(updates))

	presentation, err := f.fetch(ctx, tool, presentationID)
	if err != nil {
		return err
	}
	page, err := f.slideAt(tool, presentation, presentationID, slideNumber)
	if err != nil {
		return err
	}
	requests, err := planTextUpdates(presentationID, slideNumber, page, updates)
	if err != nil {
		return f.fail(tool, err)
	}
	if len(requests) == 0 {
		logCtx.Debug("Nothing to change.")
		return nil
	}
	if _, err := f.write(ctx, tool, presentationID, slideNumber, requests); err != nil {
		return err
	}
	logCtx.Debug("Text updated.", "requestCount", len(requests))
	return nil
}

// AddElement creates an image or table on a slide.
func (f *SlidesFunction) AddElement(ctx context.Context, req *models.AddElementRequest) (*models.AddElementResponse, error) {
	const tool = "add_element"
	logCtx := f.logger.With("presentationId", req.PresentationID, "slideNumber", req.SlideNumber, "type", req.Type)

	if err := validateAddElement(req); err != nil {
		return nil, f.fail(tool, err)
	}
	presentation, err := f.fetch(ctx, tool, req.PresentationID)
	if err != nil {
		return nil, err
	}
	page, err := f.slideAt(tool, presentation, req.PresentationID, req.SlideNumber)
	if err != nil {
		return nil, err
	}

	width, height, unit := pageGeometry(presentation)
	pl, err := computePlacement(width, height, unit, req.Position)
	if err != nil {
		return nil, f.fail(tool, errinfo.InvalidParams(req.PresentationID, err.Error()))
	}
	objectID := newElementID(req.SlideNumber, normalizeElementType(req.Type))
	if hasObjectID(presentation, objectID) {
		return nil, f.fail(tool, errinfo.DuplicateID(req.PresentationID, objectID, nil))
	}

	request := planAddElement(page.ObjectId, objectID, req, pl)
	if _, err := f.write(ctx, tool, req.PresentationID, req.SlideNumber, []*slides.Request{request}); err != nil {
		var ie *errinfo.Error
		if errors.As(err, &ie) && ie.Kind == errinfo.KindDuplicateID && ie.ElementID == "" {
			ie.ElementID = objectID
		}
		return nil, err
	}
	logCtx.Debug("Element added.", "elementId", objectID)
	return &models.AddElementResponse{Success: true, ElementID: objectID}, nil
}

// DuplicateSlide copies a slide. The copy always lands right after the
// source and that position is what is reported; insertAt is not honoured.
func (f *SlidesFunction) DuplicateSlide(ctx context.Context, req *models.DuplicateSlideRequest) (*models.DuplicateSlideResponse, error) {
	const tool = "duplicate_slide"
	logCtx := f.logger.With("presentationId", req.PresentationID, "sourceSlide", req.SourceSlide)

	if req.InsertAt < 0 {
		return nil, f.fail(tool, errinfo.InvalidParams(req.PresentationID, "insertAt must be positive"))
	}
	presentation, err := f.fetch(ctx, tool, req.PresentationID)
	if err != nil {
		return nil, err
	}
	page, err := f.slideAt(tool, presentation, req.PresentationID, req.SourceSlide)
	if err != nil {
		return nil, err
	}

	resp, err := f.write(ctx, tool, req.PresentationID, req.SourceSlide, []*slides.Request{planDuplicateSlide(page.ObjectId)})
	if err != nil {
		return nil, err
	}

	newSlideNumber := req.SourceSlide + 1
	if req.InsertAt != 0 && req.InsertAt != newSlideNumber {
		logCtx.Warn("Requested insert position is not applied; the copy follows the source.", "insertAt", req.InsertAt, "newSlideNumber", newSlideNumber)
		f.recorder.Record(models.AuditEvent{
			Name:           models.EventInsertAtIgnored,
			Tool:           tool,
			PresentationID: req.PresentationID,
			SlideNumber:    req.SourceSlide,
			ErrorDetails:   fmt.Sprintf("insertAt %d ignored, copy placed at %d", req.InsertAt, newSlideNumber),
			CreatedAt:      time.Now(),
		})
	}

	out := &models.DuplicateSlideResponse{Success: true, NewSlideNumber: newSlideNumber}
	if resp != nil && len(resp.Replies) > 0 && resp.Replies[0] != nil && resp.Replies[0].DuplicateObject != nil {
		out.NewSlideID = resp.Replies[0].DuplicateObject.ObjectId
	}
	return out, nil
}

// ListPresentations lists presentations visible to the caller.
func (f *SlidesFunction) ListPresentations(ctx context.Context, req *models.ListPresentationsRequest) (*models.ListPresentationsResponse, error) {
	const tool = "list_presentations"
	if f.lister == nil {
		return nil, f.fail(tool, errinfo.TransportFailure("", errors.New("presentation listing is not configured")))
	}
	limit := req.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	files, err := f.lister.ListPresentations(ctx, req.Query, limit)
	if err != nil {
		return nil, f.fail(tool, err)
	}
	if files == nil {
		files = []models.PresentationFile{}
	}
	return &models.ListPresentationsResponse{Presentations: files}, nil
}
