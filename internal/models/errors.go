package models

import "errors"

var (
	ErrInvalidInput            = errors.New("invalid input")
	ErrInvalidState            = errors.New("invalid state for this command")
	ErrNotAcceptingSubmissions = errors.New("not accepting submissions for this team right now")
	ErrInsufficientTokens      = errors.New("insufficient tokens")
	ErrUnknownTeam             = errors.New("unknown team")
	ErrUnknownRound            = errors.New("unknown round kind")
	ErrContention              = errors.New("storage contention, retry")
)
