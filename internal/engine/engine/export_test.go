package engine

// StoreDocument exposes storeDocument for white-box tests.
var StoreDocument = (*Engine).storeDocument
