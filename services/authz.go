package services

// ensureOwner is the single ownership check applied before every mutating
// operation on a user-owned resource.
func ensureOwner(resourceUserID, callerID uint) error {
	if resourceUserID != callerID {
		return newForbiddenError("you do not own this resource")
	}
	return nil
}
