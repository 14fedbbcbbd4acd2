package service

import "errors"

// Typed failures surfaced by the service layer. Transport layers map these
// onto response codes; callers branch with errors.Is.
var (
	ErrInvalidName    = errors.New("invalid folder name")
	ErrDuplicateName  = errors.New("folder already exists")
	ErrFolderNotFound = errors.New("folder not found")
	ErrProtectedName  = errors.New("folder cannot be deleted")

	ErrDuplicateJobID = errors.New("job id already in use")
	ErrJobNotFound    = errors.New("job not found")
	ErrFolderVanished = errors.New("target folder deleted during processing")

	ErrEmptyQuestion = errors.New("question must not be empty")
)
