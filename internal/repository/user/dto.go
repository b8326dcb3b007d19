package user

import (
	"github.com/odhiyaty/odhiyaty/internal/db/firestore/wire"
	"github.com/odhiyaty/odhiyaty/internal/domain"
)

// Field names of the users collection.
const (
	FieldUID                     = "uid"
	FieldEmail                   = "email"
	FieldRole                    = "role"
	FieldPhone                   = "phone"
	FieldAddress                 = "address"
	FieldCity                    = "city"
	FieldFullName                = "fullName"
	FieldEmailVerified           = "emailVerified"
	FieldCreatedAt               = "createdAt"
	FieldVerificationToken       = "emailVerificationToken"
	FieldVerificationTokenExpiry = "emailVerificationTokenExpiry"
)

func toRecord(u domain.User) wire.Record {
	rec := wire.Record{
		FieldUID:           u.UID,
		FieldEmail:         u.Email,
		FieldRole:          u.Role,
		FieldPhone:         u.Phone,
		FieldAddress:       u.Address,
		FieldCity:          u.City,
		FieldFullName:      u.FullName,
		FieldEmailVerified: u.EmailVerified,
		FieldCreatedAt:     u.CreatedAt,
	}
	if u.VerificationToken != "" {
		rec[FieldVerificationToken] = u.VerificationToken
		rec[FieldVerificationTokenExpiry] = u.VerificationTokenExpiry
	}
	return rec
}

func fromRecord(id string, rec wire.Record) domain.User {
	u := domain.User{
		UID:               rec.String(FieldUID),
		Email:             rec.String(FieldEmail),
		Role:              rec.String(FieldRole),
		Phone:             rec.String(FieldPhone),
		Address:           rec.String(FieldAddress),
		City:              rec.String(FieldCity),
		FullName:          rec.String(FieldFullName),
		EmailVerified:     rec.Bool(FieldEmailVerified),
		VerificationToken: rec.String(FieldVerificationToken),
	}
	if u.UID == "" {
		u.UID = id
	}
	u.CreatedAt, _ = rec.Int(FieldCreatedAt)
	u.VerificationTokenExpiry, _ = rec.Int(FieldVerificationTokenExpiry)
	return u
}
