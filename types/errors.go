package types

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrNotConnected         = errors.New("please connect your wallet first")
	ErrConnectionInProgress = errors.New("wallet connection already in progress")
	ErrAlreadyInProgress    = errors.New("another operation on this contract is in progress")
	ErrNotFound             = errors.New("contract not found")
	ErrInvalidTransition    = errors.New("invalid status transition")
	ErrMilestoneNotFound    = errors.New("milestone not found")
	ErrMilestonePaid        = errors.New("milestone already paid")
)

// TransitionError 非法的状态流转
type TransitionError struct {
	From Status
	To   Status
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("cannot move contract from %s to %s", e.From, e.To)
}

// Is 让 errors.Is(err, ErrInvalidTransition) 成立
func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}

// ValidationError 表单校验失败，Fields 为 字段 -> 提示信息
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e.Fields[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}
