package prismindex

import "errors"

var errUnclassifiableOperation = errors.New("prismindex: operation kind has no classification rule")
