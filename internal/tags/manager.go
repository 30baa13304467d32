// Package tags enforces the tag lifecycle: tags are created inside a store,
// linked to and unlinked from items, and deleted only once no item references
// them. Every operation runs inside a single unit of work.
package tags

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/joestump/joe-stock/internal/metrics"
	"github.com/joestump/joe-stock/internal/store"
)

const (
	// MaxNameLength is the longest tag name accepted, in characters.
	MaxNameLength = 128

	// Response messages are matched verbatim by existing clients, casing included.
	MessageTagDeleted  = "Tag deleted"
	MessageTagUnlinked = "tag removed from item"
)

var tracer = otel.Tracer("github.com/joestump/joe-stock/internal/tags")

// TagDetail is a tag together with its owning store and linked items.
type TagDetail struct {
	Tag   *store.Tag
	Store *store.Store
	Items []*store.Item
}

// ItemDetail is an item together with its linked tags.
type ItemDetail struct {
	Item *store.Item
	Tags []*store.Tag
}

// Unlinked confirms a removed association.
type Unlinked struct {
	Message string
	Item    *ItemDetail
	Tag     *TagDetail
}

// Manager mediates every mutation of tags and their item associations.
type Manager struct {
	uow    store.UnitOfWork
	logger *slog.Logger
}

func NewManager(uow store.UnitOfWork, logger *slog.Logger) *Manager {
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{uow: uow, logger: logger}
}

// ListTags returns every tag owned by storeID.
func (m *Manager) ListTags(ctx context.Context, storeID string) ([]*TagDetail, error) {
	var out []*TagDetail
	err := m.run(ctx, "ListTags", []attribute.KeyValue{attribute.String("store.id", storeID)},
		func(ctx context.Context, r store.Repositories) error {
			s, err := getStore(ctx, r, storeID)
			if err != nil {
				return err
			}
			list, err := r.Tags.ListByStore(ctx, s.ID)
			if err != nil {
				return err
			}
			out = make([]*TagDetail, 0, len(list))
			for _, t := range list {
				items, err := r.Tags.ListItems(ctx, t.ID)
				if err != nil {
					return err
				}
				out = append(out, &TagDetail{Tag: t, Store: s, Items: items})
			}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// CreateTag persists a new tag named name in storeID.
func (m *Manager) CreateTag(ctx context.Context, storeID, name string) (*TagDetail, error) {
	var out *TagDetail
	err := m.run(ctx, "CreateTag", []attribute.KeyValue{attribute.String("store.id", storeID)},
		func(ctx context.Context, r store.Repositories) error {
			name, err := validateName(name)
			if err != nil {
				return err
			}
			s, err := getStore(ctx, r, storeID)
			if err != nil {
				return err
			}
			t, err := r.Tags.Create(ctx, s.ID, name)
			if err != nil {
				return err
			}
			out = &TagDetail{Tag: t, Store: s, Items: []*store.Item{}}
			return nil
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// LinkTagToItem associates tagID with itemID. Linking an existing pair is a no-op.
func (m *Manager) LinkTagToItem(ctx context.Context, itemID, tagID string) (*TagDetail, error) {
	var out *TagDetail
	attrs := []attribute.KeyValue{attribute.String("item.id", itemID), attribute.String("tag.id", tagID)}
	err := m.run(ctx, "LinkTagToItem", attrs, func(ctx context.Context, r store.Repositories) error {
		item, err := getItem(ctx, r, itemID)
		if err != nil {
			return err
		}
		t, err := getTag(ctx, r, tagID)
		if err != nil {
			return err
		}
		added, err := r.Tags.Link(ctx, item.ID, t.ID)
		if err != nil {
			return err
		}
		if !added {
			m.logger.DebugContext(ctx, "tag already linked", "item_id", item.ID, "tag_id", t.ID)
		}
		out, err = loadTagDetail(ctx, r, t)
		return err
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// UnlinkTagFromItem removes the tagID/itemID association. The pair must be linked.
func (m *Manager) UnlinkTagFromItem(ctx context.Context, itemID, tagID string) (*Unlinked, error) {
	var out *Unlinked
	attrs := []attribute.KeyValue{attribute.String("item.id", itemID), attribute.String("tag.id", tagID)}
	err := m.run(ctx, "UnlinkTagFromItem", attrs, func(ctx context.Context, r store.Repositories) error {
		item, err := getItem(ctx, r, itemID)
		if err != nil {
			return err
		}
		t, err := getTag(ctx, r, tagID)
		if err != nil {
			return err
		}
		if err := r.Tags.Unlink(ctx, item.ID, t.ID); err != nil {
			if errors.Is(err, store.ErrNotLinked) {
				return fmt.Errorf("%w: item %q, tag %q", ErrNotLinked, item.ID, t.ID)
			}
			return err
		}
		td, err := loadTagDetail(ctx, r, t)
		if err != nil {
			return err
		}
		itemTags, err := r.Tags.ListByItem(ctx, item.ID)
		if err != nil {
			return err
		}
		out = &Unlinked{
			Message: MessageTagUnlinked,
			Item:    &ItemDetail{Item: item, Tags: itemTags},
			Tag:     td,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetTag returns the tag with tagID.
func (m *Manager) GetTag(ctx context.Context, tagID string) (*TagDetail, error) {
	var out *TagDetail
	err := m.run(ctx, "GetTag", []attribute.KeyValue{attribute.String("tag.id", tagID)},
		func(ctx context.Context, r store.Repositories) error {
			t, err := getTag(ctx, r, tagID)
			if err != nil {
				return err
			}
			out, err = loadTagDetail(ctx, r, t)
			return err
		})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// DeleteTag removes tagID. It fails with ErrTagInUse while any item is linked,
// in which case nothing is deleted.
func (m *Manager) DeleteTag(ctx context.Context, tagID string) (string, error) {
	err := m.run(ctx, "DeleteTag", []attribute.KeyValue{attribute.String("tag.id", tagID)},
		func(ctx context.Context, r store.Repositories) error {
			t, err := getTag(ctx, r, tagID)
			if err != nil {
				return err
			}
			n, err := r.Tags.CountItems(ctx, t.ID)
			if err != nil {
				return err
			}
			if n > 0 {
				return fmt.Errorf("%w: %d linked item(s)", ErrTagInUse, n)
			}
			if err := r.Tags.Delete(ctx, t.ID); err != nil {
				switch {
				case errors.Is(err, store.ErrNotFound):
					return &NotFoundError{Entity: "tag", ID: tagID}
				case errors.Is(err, store.ErrInUse):
					// A link committed after the count.
					return fmt.Errorf("%w: linked concurrently", ErrTagInUse)
				}
				return err
			}
			return nil
		})
	if err != nil {
		return "", err
	}
	return MessageTagDeleted, nil
}

// run executes fn in one unit of work, classifies the outcome, and records the
// span and counter for op.
func (m *Manager) run(ctx context.Context, op string, attrs []attribute.KeyValue, fn func(context.Context, store.Repositories) error) error {
	ctx, span := tracer.Start(ctx, "tags."+op)
	defer span.End()
	span.SetAttributes(attrs...)

	err := m.uow.Do(ctx, func(r store.Repositories) error { return fn(ctx, r) })
	err = classify(op, err)

	outcome := outcomeOf(err)
	metrics.TagOperationsTotal.WithLabelValues(op, outcome).Inc()
	span.SetAttributes(attribute.String("outcome", outcome))

	if err != nil {
		span.RecordError(err)
		if errors.Is(err, ErrPersistence) {
			span.SetStatus(codes.Error, "persistence error")
			m.logger.ErrorContext(ctx, "tag operation failed", "op", op, "err", err)
		}
	}
	return err
}

// classify leaves domain errors untouched and wraps everything else as a
// PersistenceError.
func classify(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound),
		errors.Is(err, ErrTagInUse),
		errors.Is(err, ErrNotLinked),
		errors.Is(err, ErrInvalidName):
		return err
	default:
		return &PersistenceError{Op: op, Err: err}
	}
}

func outcomeOf(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrInvalidName):
		return "invalid"
	case errors.Is(err, ErrTagInUse):
		return "in_use"
	case errors.Is(err, ErrNotLinked):
		return "not_linked"
	default:
		return "error"
	}
}

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fmt.Errorf("%w: name is required", ErrInvalidName)
	}
	if utf8.RuneCountInString(name) > MaxNameLength {
		return "", fmt.Errorf("%w: name must be %d characters or less", ErrInvalidName, MaxNameLength)
	}
	return name, nil
}

func getStore(ctx context.Context, r store.Repositories, id string) (*store.Store, error) {
	s, err := r.Stores.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Entity: "store", ID: id}
	}
	return s, err
}

func getItem(ctx context.Context, r store.Repositories, id string) (*store.Item, error) {
	it, err := r.Items.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Entity: "item", ID: id}
	}
	return it, err
}

func getTag(ctx context.Context, r store.Repositories, id string) (*store.Tag, error) {
	t, err := r.Tags.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, &NotFoundError{Entity: "tag", ID: id}
	}
	return t, err
}

func loadTagDetail(ctx context.Context, r store.Repositories, t *store.Tag) (*TagDetail, error) {
	s, err := r.Stores.GetByID(ctx, t.StoreID)
	if err != nil {
		return nil, err
	}
	items, err := r.Tags.ListItems(ctx, t.ID)
	if err != nil {
		return nil, err
	}
	return &TagDetail{Tag: t, Store: s, Items: items}, nil
}
