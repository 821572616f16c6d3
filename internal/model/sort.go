package model

import (
	"errors"
	"strings"
)

// SortColumn is one of the question columns a listing may be ordered by.
type SortColumn string

const (
	SortBySubmissionTime SortColumn = "submission_time"
	SortByViewNumber     SortColumn = "view_number"
	SortByVoteNumber     SortColumn = "vote_number"
	SortByTitle          SortColumn = "title"
	SortByMessage        SortColumn = "message"
)

// SortDirection is asc or desc.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
)

// SortColumns lists the allowed columns in the order the listing page offers them.
var SortColumns = []SortColumn{
	SortBySubmissionTime,
	SortByViewNumber,
	SortByVoteNumber,
	SortByTitle,
	SortByMessage,
}

var ErrInvalidSort = errors.New("invalid sort")

// Sort is a validated ORDER BY specification.
type Sort struct {
	Column    SortColumn
	Direction SortDirection
}

// DefaultSort shows the newest questions first.
var DefaultSort = Sort{Column: SortBySubmissionTime, Direction: SortDesc}

// ParseSort validates user supplied column and direction against the allow-list.
// Empty values fall back to DefaultSort's parts.
func ParseSort(column, direction string) (Sort, error) {
	s := DefaultSort

	if column = strings.ToLower(strings.TrimSpace(column)); column != "" {
		found := false
		for _, c := range SortColumns {
			if string(c) == column {
				s.Column = c
				found = true
				break
			}
		}
		if !found {
			return Sort{}, ErrInvalidSort
		}
	}

	switch d := SortDirection(strings.ToLower(strings.TrimSpace(direction))); d {
	case "":
	case SortAsc, SortDesc:
		s.Direction = d
	default:
		return Sort{}, ErrInvalidSort
	}

	return s, nil
}

// OrderBy renders the clause body, e.g. "vote_number DESC".
// Only allow-listed identifiers can reach this point.
func (s Sort) OrderBy() string {
	dir := "ASC"
	if s.Direction == SortDesc {
		dir = "DESC"
	}
	return string(s.Column) + " " + dir + ", id " + dir
}

// Less orders two questions the way OrderBy does.
func (s Sort) Less(a, b Question) bool {
	var cmp int
	switch s.Column {
	case SortByViewNumber:
		cmp = compareInt(a.ViewNumber, b.ViewNumber)
	case SortByVoteNumber:
		cmp = compareInt(a.VoteNumber, b.VoteNumber)
	case SortByTitle:
		cmp = strings.Compare(a.Title, b.Title)
	case SortByMessage:
		cmp = strings.Compare(a.Message, b.Message)
	default:
		cmp = a.SubmissionTime.Compare(b.SubmissionTime)
	}
	if cmp == 0 {
		cmp = compareInt(a.ID, b.ID)
	}

	if s.Direction == SortDesc {
		return cmp > 0
	}
	return cmp < 0
}

func compareInt(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}
