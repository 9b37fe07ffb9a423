package auth

import (
	apperrors "asset-service/pkg/errors"
)

// Authorize checks that the caller owns the stored entity. A denial is
// reported as NotFound so a non-owner cannot learn that the id exists.
func Authorize(callerID, storedOwnerID string) error {
	if callerID == "" || callerID != storedOwnerID {
		return apperrors.NotFound(msgAssetNotFound)
	}
	return nil
}
