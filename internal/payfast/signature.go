// Package payfast реализует протокол платёжного провайдера PayFast:
// формирование подписанного платёжного запроса и проверку асинхронных
// ITN-уведомлений (подпись + обязательное подтверждение у провайдера).
package payfast

import (
	"crypto/md5" //nolint:gosec // схема подписи PayFast требует MD5
	"encoding/hex"
	"sort"
	"strings"
)

// SignatureField — имя поля с подписью; само в подпись не входит.
const SignatureField = "signature"

// Байты, которые encodeURIComponent оставляет без экранирования.
// Подпись должна побайтово совпадать с реализацией провайдера, поэтому
// стандартные url.QueryEscape / url.PathEscape не подходят: первый кодирует
// пробел как '+', оба расходятся на наборе !*'()~.
const uriUnreserved = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789-_.!~*'()"

const upperhex = "0123456789ABCDEF"

// encodeComponent кодирует строку по правилам encodeURIComponent,
// но с процент-эскейпами в верхнем регистре (%2f -> %2F), как того
// требует схема подписи PayFast.
func encodeComponent(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(uriUnreserved, c) >= 0 {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(upperhex[c>>4])
		b.WriteByte(upperhex[c&0xF])
	}
	return b.String()
}

// BuildParamString собирает строку для подписи: ключи сортируются
// лексикографически, поле signature и поля с пустыми значениями
// отбрасываются (пустые значения не подписываются как пустые строки),
// значения кодируются encodeComponent, пары соединяются через '&'.
// Непустая (после обрезки пробелов) passphrase добавляется последней.
func BuildParamString(fields map[string]string, passphrase string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		if k == SignatureField || fields[k] == "" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		pairs = append(pairs, k+"="+encodeComponent(fields[k]))
	}
	if pp := strings.TrimSpace(passphrase); pp != "" {
		pairs = append(pairs, "passphrase="+encodeComponent(pp))
	}
	return strings.Join(pairs, "&")
}

// Sign возвращает подпись набора полей: MD5 от строки параметров
// в нижнем регистре hex.
func Sign(fields map[string]string, passphrase string) string {
	sum := md5.Sum([]byte(BuildParamString(fields, passphrase))) //nolint:gosec
	return hex.EncodeToString(sum[:])
}
