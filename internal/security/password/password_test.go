package password

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashVerify(t *testing.T) {
	h, err := Hash(Fast, "correct horse")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(h, "$argon2id$v=19$m=8192,t=1,p=1$"))
	require.True(t, Verify("correct horse", h))
	require.False(t, Verify("correct horsE", h))

	h2, err := Hash(Fast, "correct horse")
	require.NoError(t, err)
	require.NotEqual(t, h, h2, "salt must differ")
}

func TestHashEmpty(t *testing.T) {
	_, err := Hash(Fast, "")
	require.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyMalformed(t *testing.T) {
	for _, phc := range []string{
		"",
		"plain",
		"$argon2i$v=19$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=18$m=1,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=x,t=1,p=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1$c2FsdA$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$!!$a2V5",
		"$argon2id$v=19$m=1,t=1,p=1$c2FsdA$",
	} {
		require.False(t, Verify("x", phc), phc)
	}
}

func TestPolicy(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "common.txt")
	require.NoError(t, os.WriteFile(path, []byte("# top\nPassword123\n"), 0o600))
	bl, err := LoadBlacklist(path)
	require.NoError(t, err)

	p := DefaultPolicy
	p.Blacklist = bl

	ok, _ := p.Validate("s3cure-enough")
	require.True(t, ok)

	_, reasons := p.Validate("short")
	require.Equal(t, []string{"too_short"}, reasons)

	_, reasons = p.Validate(strings.Repeat("я", 73))
	require.Equal(t, []string{"too_long"}, reasons)

	_, reasons = p.Validate("password123")
	require.Equal(t, []string{"too_common"}, reasons)

	ok, _ = DefaultPolicy.Validate("password123")
	require.True(t, ok, "nil blacklist accepts everything")
}

func TestBlacklist_BuiltinAndLayoutFolding(t *testing.T) {
	bl, err := LoadBlacklist("")
	require.NoError(t, err)
	require.Positive(t, bl.Len())

	require.True(t, bl.Contains("DOHKAR123"))
	require.True(t, bl.Contains("  Qwerty123 "))
	require.True(t, bl.Contains("йцукен123"), "qwerty123 typed in the russian layout")
	require.True(t, bl.Contains("Пароль"))
	require.True(t, bl.Contains("gfhjkm"), "пароль typed in the latin layout")
	require.False(t, bl.Contains("дом-у-реки-2025"))

	var nilList *Blacklist
	require.False(t, nilList.Contains("123456"))
	require.Zero(t, nilList.Len())
}

func TestBlacklist_FileExtendsBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dohkar.txt")
	require.NoError(t, os.WriteFile(path, []byte("# listado del equipo\nАргун2024\n\n  Shali  \n"), 0o600))

	bl, err := LoadBlacklist(path)
	require.NoError(t, err)
	require.True(t, bl.Contains("аргун2024"))
	require.True(t, bl.Contains("fhuey2024"), "аргун2024 typed in the latin layout")
	require.True(t, bl.Contains("SHALI"))
	require.True(t, bl.Contains("grozny"), "built-in entries stay")
	require.False(t, bl.Contains("# listado del equipo"))

	_, err = LoadBlacklist(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
