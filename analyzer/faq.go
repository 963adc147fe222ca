package analyzer

import (
	"fmt"
	"strings"
)

// faqTemplates holds question templates per detected intent. %s is the focus
// keyword.
var faqTemplates = map[SearchIntent][]string{
	IntentInformational: {
		"%s là gì?",
		"Lợi ích của %s như thế nào?",
		"Cách sử dụng %s hiệu quả?",
		"Những lưu ý khi dùng %s?",
	},
	IntentCommercial: {
		"%s loại nào tốt nhất hiện nay?",
		"Nên mua %s hãng nào?",
		"Ưu nhược điểm của %s là gì?",
		"So sánh các dòng %s phổ biến?",
	},
	IntentTransactional: {
		"%s mua ở đâu giá rẻ?",
		"%s có bảo hành không?",
		"Mua %s online có được giao hàng nhanh không?",
		"Giá %s hiện nay bao nhiêu?",
	},
	IntentLocal: {
		"Cửa hàng bán %s gần đây ở đâu?",
		"Địa chỉ mua %s uy tín?",
		"Giờ mở cửa cửa hàng %s?",
		"Đường đi đến cửa hàng %s?",
	},
}

// suggestFAQs renders the template set for the intent with the focus keyword.
// An empty keyword yields an empty list.
func suggestFAQs(keyword string, intent SearchIntent) []string {
	keyword = strings.TrimSpace(keyword)
	if keyword == "" {
		return []string{}
	}
	templates, ok := faqTemplates[intent]
	if !ok {
		templates = faqTemplates[IntentInformational]
	}
	out := make([]string, 0, len(templates))
	for _, tpl := range templates {
		out = append(out, fmt.Sprintf(tpl, keyword))
	}
	return out
}
