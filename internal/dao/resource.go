package dao

import (
	"context"
	"fmt"
	"net/url"
)

// Resource is the REST accessor of one entity collection.
type Resource[T Object] struct {
	factory Factory
	rid     ResourceID
	path    string
}

var _ Accessor[Asset] = (*Resource[Asset])(nil)

// NewResource returns the accessor of the given resource.
func NewResource[T Object](f Factory, rid ResourceID) (*Resource[T], error) {
	m, err := MetaFor(rid)
	if err != nil {
		return nil, err
	}

	return &Resource[T]{factory: f, rid: rid, path: m.Path}, nil
}

// ResourceID returns the resource id.
func (r *Resource[T]) ResourceID() ResourceID {
	return r.rid
}

// Factory returns the factory the accessor uses.
func (r *Resource[T]) Factory() Factory {
	return r.factory
}

func (r *Resource[T]) itemPath(id string) string {
	return r.path + "/" + url.PathEscape(id)
}

// List fetches one page.
func (r *Resource[T]) List(ctx context.Context, q Query) (DataResult[T], error) {
	var res DataResult[T]
	if err := r.factory.Client().Get(ctx, r.path, q.Params(), &res); err != nil {
		return DataResult[T]{}, err
	}
	if res.Result == nil {
		res.Result = []T{}
	}

	return res, nil
}

// Get fetches one entity.
func (r *Resource[T]) Get(ctx context.Context, id string) (T, error) {
	var o T
	if err := r.factory.Client().Get(ctx, r.itemPath(id), nil, &o); err != nil {
		return o, fmt.Errorf("get %s %q: %w", r.rid, id, err)
	}

	return o, nil
}

type createResponse struct {
	ID string `json:"id"`
}

// Create stores a new entity and returns its id.
func (r *Resource[T]) Create(ctx context.Context, o T) (string, error) {
	var resp createResponse
	if err := r.factory.Client().Post(ctx, r.path, o, &resp); err != nil {
		return "", fmt.Errorf("create %s: %w", r.rid, err)
	}

	return resp.ID, nil
}

// Update replaces an existing entity.
func (r *Resource[T]) Update(ctx context.Context, o T) error {
	if err := r.factory.Client().Put(ctx, r.itemPath(o.GetID()), o, nil); err != nil {
		return fmt.Errorf("update %s %q: %w", r.rid, o.GetID(), err)
	}

	return nil
}

// Delete removes an entity.
func (r *Resource[T]) Delete(ctx context.Context, id string) error {
	if err := r.factory.Client().Delete(ctx, r.itemPath(id), nil); err != nil {
		return fmt.Errorf("delete %s %q: %w", r.rid, id, err)
	}

	return nil
}

// put issues an action on one entity.
func (r *Resource[T]) put(ctx context.Context, id, verb string, body, out any) error {
	if err := r.factory.Client().Put(ctx, r.itemPath(id)+"/"+verb, body, out); err != nil {
		return fmt.Errorf("%s %s %q: %w", verb, r.rid, id, err)
	}

	return nil
}
