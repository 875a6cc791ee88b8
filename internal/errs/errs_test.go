// Package errs 错误分类单元测试
package errs

import (
	"errors"
	"fmt"
	"testing"
)

func TestNotFoundf(t *testing.T) {
	err := NotFoundf("task %s", "t1")

	if !IsNotFound(err) {
		t.Error("NotFoundf() result should classify as not found")
	}
	if err.Error() != "task t1: not found" {
		t.Errorf("Error() = %q", err.Error())
	}
}

func TestValidationf(t *testing.T) {
	err := Validationf("invalid priority %q", "urgent")

	if !IsValidation(err) {
		t.Error("Validationf() result should classify as validation")
	}
	if IsNotFound(err) {
		t.Error("validation error must not classify as not found")
	}
}

func TestClassification_Wrapped(t *testing.T) {
	err := fmt.Errorf("outer context: %w", NotFoundf("task %s", "t1"))

	if !IsNotFound(err) {
		t.Error("wrapping should preserve not-found classification")
	}
}

func TestClassification_Plain(t *testing.T) {
	err := errors.New("connection refused")

	if IsNotFound(err) || IsValidation(err) || IsInvalidMessage(err) {
		t.Error("plain error should not match any classification")
	}
}

func TestIsInvalidMessage(t *testing.T) {
	if !IsInvalidMessage(ErrInvalidMessage) {
		t.Error("sentinel should match itself")
	}
	if IsInvalidMessage(ErrValidation) {
		t.Error("validation sentinel must not match invalid message")
	}
}
