package central_test

import (
	"context"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/evcon/evcon/internal/central"
)

func TestClassify(t *testing.T) {
	uu := map[string]struct {
		err error
		e   central.Kind
	}{
		"none":       {e: central.KindNone},
		"not-found":  {err: &central.HTTPError{Status: central.StatusObjectDoesNotExist}, e: central.KindNotFound},
		"404":        {err: &central.HTTPError{Status: http.StatusNotFound}, e: central.KindNotFound},
		"401":        {err: &central.HTTPError{Status: http.StatusUnauthorized}, e: central.KindUnauthorized},
		"403":        {err: &central.HTTPError{Status: http.StatusForbidden}, e: central.KindForbidden},
		"car-exists": {err: &central.HTTPError{Status: central.StatusCarAlreadyExist}, e: central.KindConflict},
		"forceable":  {err: &central.HTTPError{Status: central.StatusCarAlreadyExistDifferentUser}, e: central.KindForceable},
		"wrapped":    {err: fmt.Errorf("create car: %w", &central.HTTPError{Status: 595}), e: central.KindConflict},
		"canceled":   {err: fmt.Errorf("load: %w", context.Canceled), e: central.KindCanceled},
		"500":        {err: &central.HTTPError{Status: central.StatusGeneral}, e: central.KindGeneric},
		"unknown":    {err: fmt.Errorf("boom"), e: central.KindGeneric},
		"no-conn":    {err: central.ErrNoConnection, e: central.KindGeneric},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, central.Classify(u.err))
		})
	}
}

func TestMessage(t *testing.T) {
	uu := map[string]struct {
		err      error
		fallback string
		e        string
	}{
		"not-found": {
			err: &central.HTTPError{Status: 550},
			e:   "The object does not exist anymore",
		},
		"forbidden": {
			err: &central.HTTPError{Status: 403},
			e:   "You are not authorized to perform this action",
		},
		"specific": {
			err: &central.HTTPError{Status: central.StatusUserAlreadyAssignedToCar},
			e:   "The user is already assigned to this car",
		},
		"fallback": {
			err:      &central.HTTPError{Status: 500},
			fallback: "Unable to load assets",
			e:        "Unable to load assets",
		},
		"default": {
			err: fmt.Errorf("boom"),
			e:   "The backend is unavailable, please retry later",
		},
		"no-conn": {
			err:      fmt.Errorf("get: %w", central.ErrNoConnection),
			fallback: "ignored",
			e:        "no connection to the central server",
		},
	}

	for k := range uu {
		u := uu[k]
		t.Run(k, func(t *testing.T) {
			assert.Equal(t, u.e, central.Message(u.err, u.fallback))
		})
	}
}
