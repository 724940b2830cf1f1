package workcmd

import (
	"context"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	shelfcatalog "github.com/goliatone/go-shelf/catalog"
	"github.com/goliatone/go-shelf/internal/catalog"
	"github.com/goliatone/go-shelf/internal/commands"
	"github.com/goliatone/go-shelf/pkg/interfaces"
	"github.com/google/uuid"
)

const (
	publishWorkMessageType   = "shelf.work.publish"
	unpublishWorkMessageType = "shelf.work.unpublish"
)

// PublishWorkCommand requests that a work become visible to readers.
type PublishWorkCommand struct {
	Kind        catalog.WorkKind `json:"kind"`
	WorkID      uuid.UUID        `json:"work_id"`
	PublishedBy *uuid.UUID       `json:"published_by,omitempty"`
	PublishedAt *time.Time       `json:"published_at,omitempty"`
}

// Type implements command.Message.
func (PublishWorkCommand) Type() string { return publishWorkMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m PublishWorkCommand) Validate() error {
	errs := validation.Errors{}
	if _, ok := shelfcatalog.ParseWorkKind(string(m.Kind)); !ok {
		errs["kind"] = validation.NewError("shelf.work.publish.kind_invalid", "kind must be series or book")
	}
	if m.WorkID == uuid.Nil {
		errs["work_id"] = validation.NewError("shelf.work.publish.work_id_required", "work_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// PublishWorkHandler opens the publication gate via the catalog service.
type PublishWorkHandler struct {
	inner *commands.Handler[PublishWorkCommand]
}

// NewPublishWorkHandler constructs a handler wired to the provided catalog service.
func NewPublishWorkHandler(service catalog.Service, logger interfaces.Logger, opts ...commands.HandlerOption[PublishWorkCommand]) *PublishWorkHandler {
	exec := func(ctx context.Context, msg PublishWorkCommand) error {
		req := catalog.PublishWorkRequest{
			Kind:        msg.Kind,
			WorkID:      msg.WorkID,
			PublishedAt: msg.PublishedAt,
		}
		if msg.PublishedBy != nil {
			req.PublishedBy = *msg.PublishedBy
		}
		_, err := service.PublishWork(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[PublishWorkCommand]{
		commands.WithLogger[PublishWorkCommand](logger),
		commands.WithOperation[PublishWorkCommand]("work.publish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &PublishWorkHandler{
		inner: commands.NewHandler[PublishWorkCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[PublishWorkCommand].Execute.
func (h *PublishWorkHandler) Execute(ctx context.Context, msg PublishWorkCommand) error {
	return h.inner.Execute(ctx, msg)
}

// UnpublishWorkCommand requests that a work return to draft, closing both
// visibility paths.
type UnpublishWorkCommand struct {
	Kind          catalog.WorkKind `json:"kind"`
	WorkID        uuid.UUID        `json:"work_id"`
	UnpublishedBy *uuid.UUID       `json:"unpublished_by,omitempty"`
}

// Type implements command.Message.
func (UnpublishWorkCommand) Type() string { return unpublishWorkMessageType }

// Validate ensures the message carries the required fields before reaching handlers.
func (m UnpublishWorkCommand) Validate() error {
	errs := validation.Errors{}
	if _, ok := shelfcatalog.ParseWorkKind(string(m.Kind)); !ok {
		errs["kind"] = validation.NewError("shelf.work.unpublish.kind_invalid", "kind must be series or book")
	}
	if m.WorkID == uuid.Nil {
		errs["work_id"] = validation.NewError("shelf.work.unpublish.work_id_required", "work_id is required")
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UnpublishWorkHandler closes the publication gate via the catalog service.
type UnpublishWorkHandler struct {
	inner *commands.Handler[UnpublishWorkCommand]
}

// NewUnpublishWorkHandler constructs a handler wired to the provided catalog service.
func NewUnpublishWorkHandler(service catalog.Service, logger interfaces.Logger, opts ...commands.HandlerOption[UnpublishWorkCommand]) *UnpublishWorkHandler {
	exec := func(ctx context.Context, msg UnpublishWorkCommand) error {
		req := catalog.UnpublishWorkRequest{
			Kind:   msg.Kind,
			WorkID: msg.WorkID,
		}
		if msg.UnpublishedBy != nil {
			req.UnpublishedBy = *msg.UnpublishedBy
		}
		_, err := service.UnpublishWork(ctx, req)
		return err
	}

	handlerOpts := []commands.HandlerOption[UnpublishWorkCommand]{
		commands.WithLogger[UnpublishWorkCommand](logger),
		commands.WithOperation[UnpublishWorkCommand]("work.unpublish"),
	}
	handlerOpts = append(handlerOpts, opts...)

	return &UnpublishWorkHandler{
		inner: commands.NewHandler[UnpublishWorkCommand](exec, handlerOpts...),
	}
}

// Execute satisfies command.Commander[UnpublishWorkCommand].Execute.
func (h *UnpublishWorkHandler) Execute(ctx context.Context, msg UnpublishWorkCommand) error {
	return h.inner.Execute(ctx, msg)
}
