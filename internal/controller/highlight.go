package controller

import "unicode"

// Segment 高亮分段
// 把一段文本切分为命中/未命中交替的片段，按序拼接可精确还原原文
type Segment struct {
	// Text 片段内容
	Text string `json:"text"`
	// Matched 是否命中关键词
	Matched bool `json:"matched"`
}

// HighlightText 在文本中标记关键词命中的片段
// 按字符做大小写不敏感匹配，命中从左到右扫描且互不重叠，
// 一次命中消费完整关键词后从其末尾继续。关键词为空时
// 整段文本作为单个未命中片段返回
func HighlightText(text, keyword string) []Segment {
	if text == "" {
		return nil
	}
	if keyword == "" {
		return []Segment{{Text: text}}
	}

	textRunes := []rune(text)
	keyRunes := []rune(keyword)
	if len(keyRunes) > len(textRunes) {
		return []Segment{{Text: text}}
	}

	var segments []Segment
	start := 0 // 当前未命中片段的起点
	i := 0
	for i <= len(textRunes)-len(keyRunes) {
		if !matchAt(textRunes, keyRunes, i) {
			i++
			continue
		}
		if i > start {
			segments = append(segments, Segment{Text: string(textRunes[start:i])})
		}
		segments = append(segments, Segment{
			Text:    string(textRunes[i : i+len(keyRunes)]),
			Matched: true,
		})
		i += len(keyRunes)
		start = i
	}
	if start < len(textRunes) {
		segments = append(segments, Segment{Text: string(textRunes[start:])})
	}
	return segments
}

// matchAt 判断关键词是否在pos处命中，逐字符忽略大小写
func matchAt(text, keyword []rune, pos int) bool {
	for j, k := range keyword {
		if unicode.ToLower(text[pos+j]) != unicode.ToLower(k) {
			return false
		}
	}
	return true
}
