package leaveerrors

import (
	"net/http"

	"go-worktrack/internal/shared/apperror"
)

var (
	ErrLeaveNotFound = apperror.New(
		apperror.CodeNotFound,
		"Leave request not found",
		http.StatusNotFound,
	)
	ErrLeaveForbidden = apperror.New(
		apperror.CodeForbidden,
		"This action is unauthorized.",
		http.StatusForbidden,
	)
	ErrEmployeeLinkRequired = apperror.New(
		apperror.CodeForbidden,
		"You must be linked to an employee record to view leave requests.",
		http.StatusForbidden,
	)
	ErrCreateForOtherEmployee = apperror.New(
		apperror.CodeForbidden,
		"You may only create leave requests for yourself.",
		http.StatusForbidden,
	)
	ErrReviewForbidden = apperror.New(
		apperror.CodeForbidden,
		"Only HR, admins or the department manager may change the leave status.",
		http.StatusForbidden,
	)
	ErrInvalidStatusTransition = apperror.New(
		apperror.CodeInvalidState,
		"A reviewed leave request cannot return to pending",
		http.StatusUnprocessableEntity,
	)
)
