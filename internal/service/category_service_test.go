package service_test

import (
	"context"
	"testing"

	"canteenpos/internal/dto"
	"canteenpos/internal/model"
	"canteenpos/internal/repository"
	"canteenpos/internal/service"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubCategoryRepo struct {
	categories map[uuid.UUID]*model.Category
	products   map[uuid.UUID]int64 // category id -> assigned product count
}

func newStubCategoryRepo() *stubCategoryRepo {
	return &stubCategoryRepo{
		categories: make(map[uuid.UUID]*model.Category),
		products:   make(map[uuid.UUID]int64),
	}
}

func (r *stubCategoryRepo) Create(_ context.Context, c *model.Category) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) FindByID(_ context.Context, id uuid.UUID) (*model.Category, error) {
	c, ok := r.categories[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return c, nil
}

func (r *stubCategoryRepo) List(_ context.Context) ([]model.Category, error) {
	var out []model.Category
	for _, c := range r.categories {
		out = append(out, *c)
	}
	return out, nil
}

func (r *stubCategoryRepo) Update(_ context.Context, c *model.Category) error {
	r.categories[c.ID] = c
	return nil
}

func (r *stubCategoryRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.categories, id)
	return nil
}

func (r *stubCategoryRepo) CountProducts(_ context.Context, id uuid.UUID) (int64, error) {
	return r.products[id], nil
}

var _ repository.CategoryRepository = (*stubCategoryRepo)(nil)

func TestCategoryLifecycle(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := service.NewCategoryService(repo)

	created, err := svc.Create(context.Background(), dto.CategoryRequest{Name: "Meals"})
	require.NoError(t, err)

	id := uuid.MustParse(created.ID)
	updated, err := svc.Update(context.Background(), id, dto.CategoryRequest{Name: "Hot Meals"})
	require.NoError(t, err)
	assert.Equal(t, "Hot Meals", updated.Name)

	require.NoError(t, svc.Delete(context.Background(), id))

	list, err := svc.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestCategoryDeleteBlockedWhenInUse(t *testing.T) {
	repo := newStubCategoryRepo()
	svc := service.NewCategoryService(repo)

	created, err := svc.Create(context.Background(), dto.CategoryRequest{Name: "Drinks"})
	require.NoError(t, err)

	id := uuid.MustParse(created.ID)
	repo.products[id] = 3

	err = svc.Delete(context.Background(), id)
	assert.ErrorIs(t, err, service.ErrCategoryInUse)
	assert.Contains(t, repo.categories, id)
}

func TestCategoryUpdateNotFound(t *testing.T) {
	svc := service.NewCategoryService(newStubCategoryRepo())

	_, err := svc.Update(context.Background(), uuid.New(), dto.CategoryRequest{Name: "x"})
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)

	err = svc.Delete(context.Background(), uuid.New())
	assert.ErrorIs(t, err, service.ErrCategoryNotFound)
}
