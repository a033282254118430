package widgets

import (
	"context"
	"reflect"
	"testing"

	"github.com/radek-zitek-cloud/hsh-alfa-sub000/internal/models"
	"github.com/radek-zitek-cloud/hsh-alfa-sub000/pkg/helpers"
)

type fakeWidgetSource struct {
	rows []*models.Widget
	err  error
}

func (f *fakeWidgetSource) ListEnabled(context.Context) ([]*models.Widget, error) {
	return f.rows, f.err
}

func TestRegistryTypesSorted(t *testing.T) {
	r := NewRegistry(Deps{}, nil)
	r.RegisterDefaults()

	want := []string{
		models.WidgetTypeExchangeRate,
		models.WidgetTypeHabitTracking,
		models.WidgetTypeMarket,
		models.WidgetTypeNews,
		models.WidgetTypeWeather,
	}
	if got := r.Types(); !reflect.DeepEqual(got, want) {
		t.Errorf("Types() = %v, want %v", got, want)
	}
}

func TestRegistryCreateUnknownType(t *testing.T) {
	r := NewRegistry(Deps{}, nil)
	r.RegisterDefaults()

	inst := enabledInstance("w1", "thermostat")
	if w := r.Create(helpers.TestCtx(), inst); w != nil {
		t.Errorf("Create returned %T for an unknown type, want nil", w)
	}
	if w := r.Get("w1"); w != nil {
		t.Error("unknown-type widget was stored")
	}
}

func TestRegistryCreateReplacesExisting(t *testing.T) {
	r := NewRegistry(Deps{}, nil)
	r.RegisterDefaults()
	ctx := helpers.TestCtx()

	first := enabledInstance("w1", models.WidgetTypeWeather)
	first.Config.Location = "Prague"
	r.Create(ctx, first)

	second := enabledInstance("w1", models.WidgetTypeWeather)
	second.Config.Location = "Brno"
	r.Create(ctx, second)

	got := r.Get("w1")
	if got == nil {
		t.Fatal("widget missing after replace")
	}
	if loc := got.Instance().Config.Location; loc != "Brno" {
		t.Errorf("live instance location = %q, want replacement config", loc)
	}
	if n := len(r.Instances()); n != 1 {
		t.Errorf("instance count = %d, want 1", n)
	}
}

func TestRegistryRemove(t *testing.T) {
	r := NewRegistry(Deps{}, nil)
	r.RegisterDefaults()
	r.Create(helpers.TestCtx(), enabledInstance("w1", models.WidgetTypeWeather))

	r.Remove("w1")
	if r.Get("w1") != nil {
		t.Error("widget still registered after Remove")
	}
	r.Remove("w1") // removing twice is a no-op
}

func TestRegistryLoadFromStore(t *testing.T) {
	source := &fakeWidgetSource{rows: []*models.Widget{
		{WidgetID: "w1", Type: models.WidgetTypeWeather, UserID: "u1", Enabled: true, RefreshInterval: 300},
		{WidgetID: "w2", Type: models.WidgetTypeNews, UserID: "u2", Enabled: true, RefreshInterval: 600},
		{WidgetID: "w3", Type: "thermostat", UserID: "u1", Enabled: true, RefreshInterval: 300},
	}}
	r := NewRegistry(Deps{}, source)
	r.RegisterDefaults()

	if err := r.LoadFromStore(helpers.TestCtx()); err != nil {
		t.Fatalf("LoadFromStore: %v", err)
	}

	if r.Get("w1") == nil || r.Get("w2") == nil {
		t.Error("known-type rows were not instantiated")
	}
	if r.Get("w3") != nil {
		t.Error("unknown-type row was instantiated")
	}
	if n := len(r.Instances()); n != 2 {
		t.Errorf("instance count = %d, want 2", n)
	}
}
