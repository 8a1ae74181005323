package feature

import (
	"regexp"
	"strings"
)

// 简化的词典式文本特征。线上如需更高质量可以替换为模型服务，
// 这里保持确定性规则，保证离线训练和在线打分产出一致的向量。

var positiveWords = []string{
	"good", "great", "awesome", "excellent", "happy", "love", "best", "amazing",
}

var negativeWords = []string{
	"bad", "terrible", "awful", "worst", "hate", "sad", "poor", "disappointing",
}

// topicNames 定义主题向量的维度顺序，不能随意调整，
// 否则已入库的向量会和新向量错位。
var topicNames = []string{"technology", "sports", "entertainment", "politics", "business"}

var topicKeywords = map[string][]string{
	"technology":    {"tech", "software", "app", "computer", "code", "programming"},
	"sports":        {"game", "team", "player", "score", "win", "sports"},
	"entertainment": {"movie", "show", "music", "actor", "song", "artist"},
	"politics":      {"government", "election", "policy", "president", "vote"},
	"business":      {"company", "market", "stock", "investment", "business"},
}

// hashtagCategories 定义话题标签向量的维度顺序。
var hashtagCategories = []string{
	"tech", "sport", "music", "movie", "book", "fashion",
	"food", "travel", "game", "fitness", "art", "photo",
	"news", "politics", "business", "science", "health",
}

// interestCategories 定义用户兴趣向量的维度顺序。
var interestCategories = []string{
	"technology", "sports", "music", "movies", "books", "fashion",
	"food", "travel", "gaming", "fitness", "art", "photography",
}

var (
	urlPattern     = regexp.MustCompile(`https?://\S+`)
	mentionPattern = regexp.MustCompile(`@\w+`)
)

// sentimentValue 返回文本的情感分：正面 1.0、负面 -1.0、中性 0.0。
// 按词典命中数比较，命中用子串匹配。
func sentimentValue(text string) float64 {
	lower := strings.ToLower(text)
	positive, negative := 0, 0
	for _, w := range positiveWords {
		if strings.Contains(lower, w) {
			positive++
		}
	}
	for _, w := range negativeWords {
		if strings.Contains(lower, w) {
			negative++
		}
	}
	switch {
	case positive > negative:
		return 1.0
	case negative > positive:
		return -1.0
	default:
		return 0.0
	}
}

// topicVector 返回 5 维主题 one-hot 向量，任意关键词命中即置 1。
func topicVector(text string) []float64 {
	out := make([]float64, len(topicNames))
	lower := strings.ToLower(text)
	for i, topic := range topicNames {
		for _, kw := range topicKeywords[topic] {
			if strings.Contains(lower, kw) {
				out[i] = 1.0
				break
			}
		}
	}
	return out
}

// hashtagVector 返回 17 维话题标签类别向量。
// 标签小写后做子串匹配，例如 "#TechNews" 同时命中 tech 和 news。
func hashtagVector(hashtags []string) []float64 {
	out := make([]float64, len(hashtagCategories))
	for _, tag := range hashtags {
		lower := strings.ToLower(tag)
		for i, category := range hashtagCategories {
			if strings.Contains(lower, category) {
				out[i] = 1.0
			}
		}
	}
	return out
}

// interestVector 返回 12 维兴趣类别向量，匹配规则同 hashtagVector。
func interestVector(interests []string) []float64 {
	out := make([]float64, len(interestCategories))
	for _, interest := range interests {
		lower := strings.ToLower(interest)
		for i, category := range interestCategories {
			if strings.Contains(lower, category) {
				out[i] = 1.0
			}
		}
	}
	return out
}

func hasURL(text string) bool     { return urlPattern.MatchString(text) }
func hasMention(text string) bool { return mentionPattern.MatchString(text) }
