package password

import (
	"bufio"
	_ "embed"
	"io"
	"os"
	"path/filepath"
	"strings"
)

//go:embed common_ru.txt
var builtinCommon string

// Blacklist rechaza contraseñas comunes. La comparación ignora mayúsculas,
// espacios de borde y la distribución de teclado: "йцукен" es "qwerty" y
// "gfhjkm" es "пароль".
type Blacklist struct {
	data map[string]struct{}
}

// LoadBlacklist parte de la lista embebida y suma el archivo en path (una
// contraseña por línea, # para comentarios). path vacío: solo la embebida.
func LoadBlacklist(path string) (*Blacklist, error) {
	bl := &Blacklist{data: map[string]struct{}{}}
	if err := bl.read(strings.NewReader(builtinCommon)); err != nil {
		return nil, err
	}
	if strings.TrimSpace(path) == "" {
		return bl, nil
	}
	f, err := os.Open(filepath.Clean(path))
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if err := bl.read(f); err != nil {
		return nil, err
	}
	return bl, nil
}

func (b *Blacklist) read(r io.Reader) error {
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		s := normalize(sc.Text())
		if s == "" || strings.HasPrefix(s, "#") {
			continue
		}
		b.data[s] = struct{}{}
		b.data[latinLayout(s)] = struct{}{}
	}
	return sc.Err()
}

// Len cuenta entradas, variantes de teclado incluidas.
func (b *Blacklist) Len() int {
	if b == nil {
		return 0
	}
	return len(b.data)
}

func (b *Blacklist) Contains(pwd string) bool {
	if b == nil {
		return false
	}
	p := normalize(pwd)
	if _, ok := b.data[p]; ok {
		return true
	}
	_, ok := b.data[latinLayout(p)]
	return ok
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// ЙЦУКЕН -> QWERTY, teclas en minúscula.
var ruToLatin = map[rune]rune{
	'й': 'q', 'ц': 'w', 'у': 'e', 'к': 'r', 'е': 't', 'н': 'y', 'г': 'u', 'ш': 'i', 'щ': 'o', 'з': 'p', 'х': '[', 'ъ': ']',
	'ф': 'a', 'ы': 's', 'в': 'd', 'а': 'f', 'п': 'g', 'р': 'h', 'о': 'j', 'л': 'k', 'д': 'l', 'ж': ';', 'э': '\'',
	'я': 'z', 'ч': 'x', 'с': 'c', 'м': 'v', 'и': 'b', 'т': 'n', 'ь': 'm', 'б': ',', 'ю': '.', 'ё': '`',
}

func latinLayout(s string) string {
	return strings.Map(func(r rune) rune {
		if l, ok := ruToLatin[r]; ok {
			return l
		}
		return r
	}, s)
}
