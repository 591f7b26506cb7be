package feature

import (
	"strings"
	"unicode"

	"github.com/rushteam/prodsim/core"
)

// NormalizeText 文本清洗：转小写并去除首尾空白。空输入返回空串。
func NormalizeText(raw string) string {
	return strings.TrimSpace(strings.ToLower(raw))
}

// BuildCorpus 为每条商品拼接清洗后的 title、description、category。
// 返回的语料与 products 一一对应（顺序一致）。
func BuildCorpus(products []core.Product) []string {
	corpus := make([]string, len(products))
	for i := range products {
		p := &products[i]
		corpus[i] = strings.Join([]string{
			NormalizeText(p.Title),
			NormalizeText(p.Description),
			NormalizeText(p.Category),
		}, " ")
	}
	return corpus
}

// Tokenize 切分文档：取连续的字母/数字/下划线，长度至少 2 个字符。
// stopWords 为 true 时剔除英文停用词。
func Tokenize(doc string, stopWords bool) []string {
	fields := strings.FieldsFunc(doc, func(r rune) bool {
		return !(unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_')
	})
	tokens := fields[:0]
	for _, f := range fields {
		if len([]rune(f)) < 2 {
			continue
		}
		if stopWords && IsStopWord(f) {
			continue
		}
		tokens = append(tokens, f)
	}
	return tokens
}
