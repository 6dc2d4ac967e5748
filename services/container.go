package services

import "stashbox/repositories"

// Container bundles every service behind one constructor so main wires the
// application in a single call.
type Container struct {
	Auth        AuthService
	Usage       UsageService
	Items       ItemService
	Tags        TagService
	Collections CollectionService
	SharedLinks SharedLinkService
	Cleanup     CleanupService
}

func NewContainer(repos *repositories.Container) *Container {
	return NewContainerWithStorage(repos, defaultObjectStorage())
}

func NewContainerWithStorage(repos *repositories.Container, storage ObjectStorage) *Container {
	return &Container{
		Auth:  NewAuthService(repos.TxManager, repos.Users, repos.Usage),
		Usage: NewUsageService(repos.Usage),
		Items: NewItemService(
			repos.TxManager,
			repos.Usage,
			repos.Items,
			repos.ItemFiles,
			repos.ItemTags,
			repos.Files,
			repos.Tags,
			repos.CollectionItems,
			repos.SharedLinks,
			storage,
		),
		Tags: NewTagService(repos.TxManager, repos.Tags, repos.ItemTags),
		Collections: NewCollectionService(
			repos.TxManager,
			repos.Usage,
			repos.Collections,
			repos.CollectionItems,
			repos.Items,
			storage,
		),
		SharedLinks: NewSharedLinkService(
			repos.TxManager,
			repos.SharedLinks,
			repos.Items,
			repos.ShareThrottle,
			storage,
		),
		Cleanup: NewCleanupService(
			repos.TxManager,
			repos.SharedLinks,
			repos.Files,
			repos.Usage,
			storage,
		),
	}
}
