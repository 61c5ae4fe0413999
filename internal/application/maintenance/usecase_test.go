package maintenance

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/almacen-api/internal/domain/entity"
)

type fakeArticleRepo struct {
	hardware []*entity.Article
}

func (r *fakeArticleRepo) Create(context.Context, *entity.Article) error { return nil }
func (r *fakeArticleRepo) GetByID(context.Context, string) (*entity.Article, error) {
	return nil, nil
}
func (r *fakeArticleRepo) GetBySKU(context.Context, string) (*entity.Article, error) {
	return nil, nil
}
func (r *fakeArticleRepo) Update(context.Context, *entity.Article) error { return nil }
func (r *fakeArticleRepo) List(context.Context, string, int, int) ([]*entity.Article, error) {
	return nil, nil
}
func (r *fakeArticleRepo) ListByIDs(context.Context, []string) (map[string]*entity.Article, error) {
	return nil, nil
}
func (r *fakeArticleRepo) ListHardware(context.Context) ([]*entity.Article, error) {
	return r.hardware, nil
}

func hardwareArticle(id string, createdAt time.Time, serviceMonths, replacementYears int, lastService *time.Time) *entity.Article {
	return &entity.Article{
		ID:        id,
		SKU:       "SKU-" + id,
		Name:      "Equipo " + id,
		Category:  entity.CategoryHardware,
		CreatedAt: createdAt,
		Hardware: &entity.HardwareInfo{
			ServiceIntervalMonths:    serviceMonths,
			ReplacementIntervalYears: replacementYears,
			ResponsibleContact:       "tecnico@empresa.com",
			LastServiceAt:            lastService,
		},
	}
}

func TestDueList_VencidosYNoVencidos(t *testing.T) {
	now := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)
	lastService := now.AddDate(0, -2, 0)
	repo := &fakeArticleRepo{hardware: []*entity.Article{
		// Mantenimiento vencido: creado hace 8 meses, intervalo 6, sin mantenimiento registrado.
		hardwareArticle("H1", now.AddDate(0, -8, 0), 6, 0, nil),
		// Al día: último mantenimiento hace 2 meses con intervalo de 6.
		hardwareArticle("H2", now.AddDate(0, -14, 0), 6, 0, &lastService),
		// Reemplazo vencido: 4 años de antigüedad con vida útil de 3.
		hardwareArticle("H3", now.AddDate(-4, 0, 0), 0, 3, nil),
	}}
	uc := NewUseCase(repo)
	uc.now = func() time.Time { return now }

	due, err := uc.DueList(context.Background())
	require.NoError(t, err)
	require.Len(t, due, 2)

	byID := map[string]bool{}
	for _, d := range due {
		byID[d.ArticleID] = true
	}
	assert.True(t, byID["H1"], "H1 tiene mantenimiento vencido")
	assert.False(t, byID["H2"], "H2 está al día")
	assert.True(t, byID["H3"], "H3 superó su vida útil")
}

func TestDueList_IntervaloCeroNuncaVence(t *testing.T) {
	now := time.Now()
	repo := &fakeArticleRepo{hardware: []*entity.Article{
		hardwareArticle("H1", now.AddDate(-10, 0, 0), 0, 0, nil),
	}}
	uc := NewUseCase(repo)

	due, err := uc.DueList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, due, "sin intervalos configurados no hay vencimientos")
}
