package mocks

//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/deal --output domain/deal --outpkg dealmock --filename repository_mock.go
//go:generate go run github.com/vektra/mockery/v2@v2.53.5 --name Repository --dir ../domain/campaign --output domain/campaign --outpkg campaignmock --filename repository_mock.go
