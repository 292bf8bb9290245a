package derive

import "fmt"

var ErrUnknownAccountType = fmt.Errorf("unknown account type")

var classifications = map[AccountType]Classification{
	AccountTypeInvestment:     ClassificationAsset,
	AccountTypeDepository:     ClassificationAsset,
	AccountTypeProperty:       ClassificationAsset,
	AccountTypeVehicle:        ClassificationAsset,
	AccountTypeOtherAsset:     ClassificationAsset,
	AccountTypeCredit:         ClassificationLiability,
	AccountTypeLoan:           ClassificationLiability,
	AccountTypeOtherLiability: ClassificationLiability,
}

// Classify maps an account type to asset or liability. The type enum is
// closed, so an unmatched value is a data-integrity fault and is returned as
// an error instead of an empty classification.
func Classify(t AccountType) (Classification, error) {
	c, ok := classifications[t]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownAccountType, t)
	}
	return c, nil
}
