package models

import "time"

// Attribute names used in predicates and partial updates.
const (
	AttrApplicationID = "userBioId"
	AttrUserID        = "userId"
	AttrApproved      = "approved"
	AttrUpdatedAt     = "updatedAt"
)

// Application is a user's matchmaking profile. Free-text attributes that take
// part in search are stored lowercased.
type Application struct {
	ApplicationID string `dynamodbav:"userBioId" json:"userBioId"`
	UserID        string `dynamodbav:"userId" json:"userId"`

	Email        string `dynamodbav:"email" json:"email"`
	FirstName    string `dynamodbav:"firstName" json:"firstName"`
	LastName     string `dynamodbav:"lastName" json:"lastName"`
	Birthday     string `dynamodbav:"birthday" json:"birthday"`
	Age          int    `dynamodbav:"age" json:"age"`
	MobileNumber string `dynamodbav:"mobileNumber" json:"mobileNumber"`
	Country      string `dynamodbav:"country" json:"country"`
	Address      string `dynamodbav:"address" json:"address"`
	City         string `dynamodbav:"city" json:"city"`

	Gender        string `dynamodbav:"gender" json:"gender"`
	Height        int    `dynamodbav:"height" json:"height"`
	Ethnicity     string `dynamodbav:"ethnicity" json:"ethnicity"`
	Religion      string `dynamodbav:"religion" json:"religion"`
	Practicing    string `dynamodbav:"practicing" json:"practicing"`
	MaritalStatus string `dynamodbav:"marital_status" json:"marital_status"`
	WantChildren  bool   `dynamodbav:"wantChildren" json:"wantChildren"`
	HasChildren   bool   `dynamodbav:"hasChildren" json:"hasChildren"`

	UniversityDegree      string `dynamodbav:"universityDegree" json:"universityDegree"`
	Education             string `dynamodbav:"education" json:"education"`
	Profession            string `dynamodbav:"profession" json:"profession"`
	HowDidYouLearnAboutUs string `dynamodbav:"howDidYouLearnAboutUs" json:"howDidYouLearnAboutUs"`

	AnnualIncome *int64 `dynamodbav:"annualIncome,omitempty" json:"annualIncome,omitempty"`
	NetWorth     *int64 `dynamodbav:"netWorth,omitempty" json:"netWorth,omitempty"`

	ContactPreference      string `dynamodbav:"contactPreference" json:"contactPreference"`
	ConsultationPreference string `dynamodbav:"consultationPreference" json:"consultationPreference"`
	Consent                bool   `dynamodbav:"consent" json:"consent"`

	Approved  bool      `dynamodbav:"approved" json:"approved"`
	CreatedAt time.Time `dynamodbav:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `dynamodbav:"updatedAt" json:"updatedAt"`
}

// ApplicationView is an application joined with its photo. Photo is the
// base64 encoded object, or nil when it is missing or could not be fetched.
// UploadURL is only set when the caller asked for a presigned upload.
type ApplicationView struct {
	Application
	Photo     *string `json:"photo"`
	UploadURL string  `json:"uploadUrl,omitempty"`
}
