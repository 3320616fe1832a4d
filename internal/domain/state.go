package domain

// transitions lists the statuses reachable from each article status.
// Self transitions on extracting/analyzing let a retried job re-enter its stage.
var transitions = map[ArticleStatus][]ArticleStatus{
	ArticleSubmitted:  {ArticleExtracting, ArticleFailed},
	ArticleExtracting: {ArticleExtracting, ArticleAnalyzing, ArticleFailed},
	ArticleAnalyzing:  {ArticleAnalyzing, ArticleReady, ArticleFailed},
}

func (s ArticleStatus) IsTerminal() bool {
	return s == ArticleReady || s == ArticleFailed
}

func (s ArticleStatus) IsValid() bool {
	switch s {
	case ArticleSubmitted, ArticleExtracting, ArticleAnalyzing, ArticleReady, ArticleFailed:
		return true
	}
	return false
}

// CanTransition reports whether the pipeline may move an article from s to next.
func (s ArticleStatus) CanTransition(next ArticleStatus) bool {
	for _, allowed := range transitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// SourcesOf returns every status from which next is reachable.
// Stores use it to build conditional updates.
func SourcesOf(next ArticleStatus) []ArticleStatus {
	var from []ArticleStatus
	for _, s := range []ArticleStatus{ArticleSubmitted, ArticleExtracting, ArticleAnalyzing} {
		if s.CanTransition(next) {
			from = append(from, s)
		}
	}
	return from
}
