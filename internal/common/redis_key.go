package common

import "fmt"

// ViewedQuestionsKey is the set of questions whose buffered view count hasn't
// been flushed yet.
const ViewedQuestionsKey = "community:viewed_questions"

func QuestionViewCountKey(questionID string) string {
	return fmt.Sprintf("community:question:%s:views", questionID)
}
