package controllers

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"octofit/db"
	"octofit/models"
	"octofit/observability"
)

// Resource exposes list, create, retrieve, update and delete for one collection.
type Resource[T any, PT models.Record[T]] struct {
	name              string
	store             db.Collection[T]
	schema            models.Schema
	enforceUniqueness bool
}

// NewResource binds a collection to the generic CRUD handlers. With
// enforceUniqueness set, the keys returned by UniqueKeys are checked before
// every write instead of relying on the store alone.
func NewResource[T any, PT models.Record[T]](name string, store db.Collection[T], enforceUniqueness bool) *Resource[T, PT] {
	return &Resource[T, PT]{
		name:              name,
		store:             store,
		schema:            PT(new(T)).Schema(),
		enforceUniqueness: enforceUniqueness,
	}
}

// Name returns the collection name the resource is mounted under.
func (r *Resource[T, PT]) Name() string {
	return r.name
}

// ListRecords returns every record in storage order. The result is never nil.
func (r *Resource[T, PT]) ListRecords(ctx context.Context) ([]T, error) {
	records, err := r.store.List(ctx)
	if err != nil {
		return nil, err
	}
	if records == nil {
		records = []T{}
	}
	return records, nil
}

// CreateRecord validates body and stores it as a new record.
func (r *Resource[T, PT]) CreateRecord(ctx context.Context, body []byte) (T, error) {
	var record T
	if err := models.DecodeRecord(body, &record, r.schema, false); err != nil {
		return record, err
	}
	if err := r.checkUnique(ctx, PT(&record)); err != nil {
		return record, err
	}
	return r.store.Insert(ctx, record)
}

// GetRecord loads the record with the given identifier. Identifiers that are
// not valid object ids cannot exist and yield db.ErrNotFound.
func (r *Resource[T, PT]) GetRecord(ctx context.Context, id string) (T, error) {
	oid, ok := models.ParseID(id)
	if !ok {
		var zero T
		return zero, db.ErrNotFound
	}
	return r.store.Get(ctx, oid)
}

// UpdateRecord replaces the record with the given identifier. A full update
// decodes body onto an empty record and requires every mandatory field; a
// partial update merges body onto the stored record.
func (r *Resource[T, PT]) UpdateRecord(ctx context.Context, id string, body []byte, partial bool) (T, error) {
	existing, err := r.GetRecord(ctx, id)
	if err != nil {
		return existing, err
	}

	var record T
	if partial {
		record = existing
	}
	if err := models.DecodeRecord(body, &record, r.schema, partial); err != nil {
		return record, err
	}
	PT(&record).SetID(PT(&existing).GetID())

	if err := r.checkUnique(ctx, PT(&record)); err != nil {
		return record, err
	}
	if err := r.store.Replace(ctx, record); err != nil {
		return record, err
	}
	return record, nil
}

// DeleteRecord removes the record with the given identifier. Records that
// refer to it are left untouched.
func (r *Resource[T, PT]) DeleteRecord(ctx context.Context, id string) error {
	oid, ok := models.ParseID(id)
	if !ok {
		return db.ErrNotFound
	}
	return r.store.Delete(ctx, oid)
}

func (r *Resource[T, PT]) checkUnique(ctx context.Context, record PT) error {
	if !r.enforceUniqueness {
		return nil
	}
	verr := &models.ValidationError{}
	for field, value := range record.UniqueKeys() {
		n, err := r.store.CountBy(ctx, field, value, record.GetID())
		if err != nil {
			return err
		}
		if n > 0 {
			verr.Add(field, fmt.Sprintf("%s with this %s already exists.", r.schema.Kind, field))
		}
	}
	if verr.Empty() {
		return nil
	}
	return verr
}

// List handles GET /api/<resource>/.
func (r *Resource[T, PT]) List(c *gin.Context) {
	records, err := r.ListRecords(c.Request.Context())
	if err != nil {
		r.fail(c, "list", err)
		return
	}
	observability.RecordResourceOp(r.name, "list", outcomeOK)
	c.JSON(http.StatusOK, records)
}

// Create handles POST /api/<resource>/.
func (r *Resource[T, PT]) Create(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		r.fail(c, "create", err)
		return
	}
	record, err := r.CreateRecord(c.Request.Context(), body)
	if err != nil {
		r.fail(c, "create", err)
		return
	}
	observability.RecordResourceOp(r.name, "create", outcomeOK)
	c.JSON(http.StatusCreated, record)
}

// Retrieve handles GET /api/<resource>/{id}/.
func (r *Resource[T, PT]) Retrieve(c *gin.Context) {
	record, err := r.GetRecord(c.Request.Context(), c.Param("id"))
	if err != nil {
		r.fail(c, "retrieve", err)
		return
	}
	observability.RecordResourceOp(r.name, "retrieve", outcomeOK)
	c.JSON(http.StatusOK, record)
}

// Update handles PUT /api/<resource>/{id}/.
func (r *Resource[T, PT]) Update(c *gin.Context) {
	r.update(c, "update", false)
}

// PartialUpdate handles PATCH /api/<resource>/{id}/.
func (r *Resource[T, PT]) PartialUpdate(c *gin.Context) {
	r.update(c, "partial_update", true)
}

func (r *Resource[T, PT]) update(c *gin.Context, op string, partial bool) {
	body, err := c.GetRawData()
	if err != nil {
		r.fail(c, op, err)
		return
	}
	record, err := r.UpdateRecord(c.Request.Context(), c.Param("id"), body, partial)
	if err != nil {
		r.fail(c, op, err)
		return
	}
	observability.RecordResourceOp(r.name, op, outcomeOK)
	c.JSON(http.StatusOK, record)
}

// Delete handles DELETE /api/<resource>/{id}/.
func (r *Resource[T, PT]) Delete(c *gin.Context) {
	if err := r.DeleteRecord(c.Request.Context(), c.Param("id")); err != nil {
		r.fail(c, "delete", err)
		return
	}
	observability.RecordResourceOp(r.name, "delete", outcomeOK)
	c.Status(http.StatusNoContent)
}

func (r *Resource[T, PT]) fail(c *gin.Context, op string, err error) {
	outcome := respondError(c, r.schema.Kind, err)
	observability.RecordResourceOp(r.name, op, outcome)
}
