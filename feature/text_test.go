package feature

import "testing"

func TestSentimentValue(t *testing.T) {
	tests := []struct {
		name string
		text string
		want float64
	}{
		{"positive", "this is a great app, love it", 1.0},
		{"negative", "terrible experience, the worst", -1.0},
		{"neutral", "posting an update", 0.0},
		{"tied", "good app but bad support", 0.0},
		{"case insensitive", "GREAT stuff", 1.0},
		{"empty", "", 0.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := sentimentValue(tt.text); got != tt.want {
				t.Errorf("sentimentValue(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestTopicVector(t *testing.T) {
	got := topicVector("new software release for our app")
	want := []float64{1, 0, 0, 0, 0}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("topicVector = %v, want %v", got, want)
		}
	}

	got = topicVector("the team played a great game and the stock market reacted")
	if got[1] != 1.0 || got[4] != 1.0 {
		t.Errorf("topicVector = %v, want sports and business set", got)
	}
}

func TestHashtagVectorSubstringMatch(t *testing.T) {
	got := hashtagVector([]string{"#TechNews"})
	// "technews" contains both "tech" and "news"
	techIdx, newsIdx := 0, 12
	if got[techIdx] != 1.0 || got[newsIdx] != 1.0 {
		t.Errorf("hashtagVector(#TechNews) = %v, want tech and news set", got)
	}
	for i, v := range got {
		if i != techIdx && i != newsIdx && v != 0 {
			t.Errorf("unexpected category %d set: %v", i, got)
		}
	}
}

func TestInterestVector(t *testing.T) {
	got := interestVector([]string{"Technology", "fitness training"})
	if got[0] != 1.0 {
		t.Errorf("technology not matched: %v", got)
	}
	if got[9] != 1.0 {
		t.Errorf("fitness not matched: %v", got)
	}
}

func TestURLAndMention(t *testing.T) {
	if !hasURL("check https://example.com out") {
		t.Error("hasURL missed a link")
	}
	if hasURL("no links here") {
		t.Error("hasURL false positive")
	}
	if !hasMention("thanks @alice for the tip") {
		t.Error("hasMention missed a mention")
	}
	if hasMention("email me at example dot com") {
		t.Error("hasMention false positive")
	}
}
