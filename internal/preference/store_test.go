package preference_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"midad/internal/domain"
	"midad/internal/preference"
	"midad/internal/storage/memory"
	"midad/mocks"
)

func TestStore_Defaults(t *testing.T) {
	prefs := preference.NewStore(memory.New()).Get(context.Background())

	assert.Equal(t, domain.ThemeLight, prefs.Theme)
	assert.Equal(t, domain.LanguageArabic, prefs.Language)
}

func TestStore_UnknownStoredValuesResolveToDefaults(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	require.NoError(t, kv.Set(ctx, preference.ThemeSlot, "sepia"))
	require.NoError(t, kv.Set(ctx, preference.LanguageSlot, "de"))

	prefs := preference.NewStore(kv).Get(ctx)

	assert.Equal(t, domain.DefaultTheme, prefs.Theme)
	assert.Equal(t, domain.DefaultLanguage, prefs.Language)
}

func TestStore_SetTheme(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := preference.NewStore(kv)

	prefs, err := s.SetTheme(ctx, "dark")
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, prefs.Theme)
	assert.Equal(t, domain.LanguageArabic, prefs.Language)

	raw, err := kv.Get(ctx, preference.ThemeSlot)
	require.NoError(t, err)
	assert.Equal(t, "dark", raw)

	_, err = s.SetTheme(ctx, "blue")
	assert.ErrorIs(t, err, domain.ErrInvalidTheme)
	assert.Equal(t, domain.ThemeDark, s.Get(ctx).Theme)
}

func TestStore_SetLanguage(t *testing.T) {
	ctx := context.Background()
	kv := memory.New()
	s := preference.NewStore(kv)

	prefs, err := s.SetLanguage(ctx, "fr")
	require.NoError(t, err)
	assert.Equal(t, domain.LanguageFrench, prefs.Language)

	raw, _ := kv.Get(ctx, preference.LanguageSlot)
	assert.Equal(t, "fr", raw)

	_, err = s.SetLanguage(ctx, "es")
	assert.ErrorIs(t, err, domain.ErrInvalidLanguage)
}

func TestStore_ToggleTheme(t *testing.T) {
	ctx := context.Background()
	s := preference.NewStore(memory.New())

	prefs, err := s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeDark, prefs.Theme)

	prefs, err = s.ToggleTheme(ctx)
	require.NoError(t, err)
	assert.Equal(t, domain.ThemeLight, prefs.Theme)
}

func TestStore_CycleLanguage(t *testing.T) {
	ctx := context.Background()
	s := preference.NewStore(memory.New())
	var seen []domain.Language

	for i := 0; i < 4; i++ {
		prefs, err := s.CycleLanguage(ctx)
		require.NoError(t, err)
		seen = append(seen, prefs.Language)
	}

	assert.Equal(t, []domain.Language{"en", "fr", "ar", "en"}, seen)
}

func TestStore_WriteFailure(t *testing.T) {
	ctx := context.Background()
	kv := new(mocks.MockKeyValueStore)
	kv.On("Get", mock.Anything, mock.Anything).Return("", domain.ErrSlotNotFound)
	kv.On("Set", mock.Anything, preference.ThemeSlot, "dark").Return(errors.New("read-only"))

	_, err := preference.NewStore(kv).ToggleTheme(ctx)

	assert.ErrorContains(t, err, "read-only")
}
