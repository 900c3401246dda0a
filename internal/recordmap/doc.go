// Package recordmap maps rows of a club-management export onto domain.Subscription values.
//
// The pipeline is: alias (pick the schema's source columns out of a raw row), convert
// (one typed result per field), then build the record or fail with every field error of
// that row. A Schema is a plain table; the three export shapes the club tool produces are
// PersonSchema, ContactSchema and SubscriptionSchema.
package recordmap
