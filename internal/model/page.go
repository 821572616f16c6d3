package model

import "html/template"

// QuestionPage is everything the question detail view shows.
type QuestionPage struct {
	Question         Question
	QuestionComments []Comment
	Answers          []Answer
	AnswerComments   map[int][]Comment
	Tags             []Tag
}

// SearchResult is a question with the searched phrase marked up.
type SearchResult struct {
	Question Question
	Title    template.HTML
	Message  template.HTML
}
