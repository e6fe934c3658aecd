// Package contracts holds trimmed copies of the YouTube payloads ytstreams
// depends on. Tests check the extractors and the client against them so a
// schema change shows up as a contract diff instead of a silent empty list.
package contracts

// ContractChannelID is the channel every contract payload belongs to.
const ContractChannelID = "UCSMOQeBJ2RAnuFungnQOxLg"

// StreamsPageContract is a /channel/{id}/streams page: a live stream, an
// upcoming premiere and a past broadcast, followed by a grid continuation.
const StreamsPageContract = `<!DOCTYPE html><html style="font-size: 10px" lang="en">
<head>
<script nonce="k2">var ytcfg={"INNERTUBE_CONTEXT_CLIENT_NAME":1,"INNERTUBE_CLIENT_VERSION":"2.20250101.00.00"};</script>
<script nonce="k2">window.ytAtR = '{"ytInitialData": "decoy"}';</script>
</head>
<body>
<script nonce="k2">var ytInitialData = {
 "responseContext": {"serviceTrackingParams": [{"service": "GFEEDBACK", "params": [{"key": "browse_id", "value": "UCSMOQeBJ2RAnuFungnQOxLg"}]}]},
 "contents": {"twoColumnBrowseResultsRenderer": {"tabs": [
  {"tabRenderer": {"title": "Home", "selected": false}},
  {"tabRenderer": {"title": "Live", "selected": true, "content": {"richGridRenderer": {"contents": [
   {"richItemRenderer": {"content": {"videoRenderer": {
    "videoId": "jfKfPfyJRdk",
    "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/jfKfPfyJRdk/hqdefault_live.jpg", "width": 168, "height": 94}]},
    "title": {"runs": [{"text": "lofi hip hop radio 📚 beats to relax/study to"}]},
    "longBylineText": {"runs": [{"text": "Lofi Girl", "navigationEndpoint": {"browseEndpoint": {"browseId": "UCSMOQeBJ2RAnuFungnQOxLg", "canonicalBaseUrl": "/@LofiGirl"}}}]},
    "badges": [{"metadataBadgeRenderer": {"style": "BADGE_STYLE_TYPE_LIVE_NOW", "label": "LIVE"}}],
    "thumbnailOverlays": [{"thumbnailOverlayTimeStatusRenderer": {"text": {"runs": [{"text": "LIVE"}]}, "style": "LIVE"}}]
   }}}},
   {"richItemRenderer": {"content": {"videoRenderer": {
    "videoId": "4xDzrJKXOOY",
    "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/4xDzrJKXOOY/hqdefault.jpg", "width": 168, "height": 94}, {"url": "https://i.ytimg.com/vi/4xDzrJKXOOY/hq720.jpg", "width": 336, "height": 188}]},
    "title": {"runs": [{"text": "synthwave radio 🌌 beats to chill/game to"}]},
    "upcomingEventData": {"startTime": "1767225600", "isReminderSet": false, "upcomingEventText": {"runs": [{"text": "Scheduled for "}, {"text": "DATE_PLACEHOLDER"}]}},
    "thumbnailOverlays": [{"thumbnailOverlayTimeStatusRenderer": {"text": {"simpleText": "UPCOMING"}, "style": "UPCOMING"}}]
   }}}},
   {"richItemRenderer": {"content": {"videoRenderer": {
    "videoId": "n61ULEU7CO0",
    "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/n61ULEU7CO0/hqdefault.jpg", "width": 168, "height": 94}]},
    "title": {"runs": [{"text": "Studio session & Q&A"}]},
    "longBylineText": {"runs": [{"text": "Lofi Girl", "navigationEndpoint": {"browseEndpoint": {"browseId": "UCSMOQeBJ2RAnuFungnQOxLg"}}}]},
    "lengthText": {"accessibility": {"accessibilityData": {"label": "1 hour, 2 minutes, 3 seconds"}}, "simpleText": "1:02:03"},
    "thumbnailOverlays": [{"thumbnailOverlayTimeStatusRenderer": {"text": {"simpleText": "1:02:03"}, "style": "DEFAULT"}}]
   }}}},
   {"continuationItemRenderer": {"trigger": "CONTINUATION_TRIGGER_ON_ITEM_SHOWN", "continuationEndpoint": {"clickTrackingParams": "CBcQ7zsYACITCO", "continuationCommand": {"token": "4qmFsgKKARIYVUNTTU9RZUJKMlJBbnVGdW5nblFPeExn", "request": "CONTINUATION_REQUEST_TYPE_BROWSE"}}}}
  ]}}}}
 ]}},
 "header": {"pageHeaderRenderer": {"pageTitle": "Lofi Girl", "content": {"pageHeaderViewModel": {"title": {"dynamicTextViewModel": {"text": {"content": "Lofi Girl"}}}}}}},
 "metadata": {"channelMetadataRenderer": {"title": "Lofi Girl (metadata)", "externalId": "UCSMOQeBJ2RAnuFungnQOxLg"}}
};</script>
<script nonce="k2">if (window.ytcsi) {window.ytcsi.tick('pdr', null, '');}</script>
</body></html>`

// ContinuationToken is the cursor StreamsPageContract ends with.
const ContinuationToken = "4qmFsgKKARIYVUNTTU9RZUJKMlJBbnVGdW5nblFPeExn"

// ContinuationContract is the browse response for ContinuationToken: one
// repeated stream, two new past streams and the next cursor.
const ContinuationContract = `{
 "responseContext": {"visitorData": "CgtQdzBfV3Z3"},
 "onResponseReceivedActions": [{"clickTrackingParams": "CAAQhGciEwj", "appendContinuationItemsAction": {
  "targetId": "browse-feedUCSMOQeBJ2RAnuFungnQOxLgstreams",
  "continuationItems": [
   {"richItemRenderer": {"content": {"videoRenderer": {
    "videoId": "n61ULEU7CO0",
    "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/n61ULEU7CO0/hqdefault.jpg", "width": 168, "height": 94}]},
    "title": {"runs": [{"text": "Studio session & Q&A"}]},
    "lengthText": {"simpleText": "1:02:03"}
   }}}},
   {"richItemRenderer": {"content": {"videoRenderer": {
    "videoId": "7NOSDKb0HlU",
    "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/7NOSDKb0HlU/hqdefault.jpg", "width": 168, "height": 94}]},
    "title": {"simpleText": "Christmas radio 🎄"},
    "shortBylineText": {"runs": [{"text": "Lofi Girl", "navigationEndpoint": {"browseEndpoint": {"browseId": "UCSMOQeBJ2RAnuFungnQOxLg"}}}]},
    "lengthText": {"simpleText": "23:59:59"}
   }}}},
   {"richItemRenderer": {"content": {"videoRenderer": {
    "videoId": "rUxyKA_-grg",
    "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/rUxyKA_-grg/hqdefault.jpg", "width": 168, "height": 94}]},
    "title": {"runs": [{"text": "sleepy "}, {"text": "radio"}]},
    "lengthText": {"runs": [{"text": "45:00"}]}
   }}}},
   {"continuationItemRenderer": {"trigger": "CONTINUATION_TRIGGER_ON_ITEM_SHOWN", "continuationEndpoint": {"continuationCommand": {"token": "4qmFsgKLARIYVUNTTU9RZUJKMlJBbnVGdW5nblFPeExnGm9", "request": "CONTINUATION_REQUEST_TYPE_BROWSE"}}}}
  ]}}]
}`

// NextContinuationToken is the cursor ContinuationContract ends with.
const NextContinuationToken = "4qmFsgKLARIYVUNTTU9RZUJKMlJBbnVGdW5nblFPeExnGm9"

// ReloadContract is the shape used when the grid is reloaded (sort change):
// items arrive under onResponseReceivedCommands.
const ReloadContract = `{
 "onResponseReceivedCommands": [{"reloadContinuationItemsCommand": {"slot": "RELOAD_CONTINUATION_SLOT_BODY", "continuationItems": [
  {"richItemRenderer": {"content": {"videoRenderer": {
   "videoId": "rUxyKA_-grg",
   "thumbnail": {"thumbnails": [{"url": "https://i.ytimg.com/vi/rUxyKA_-grg/hqdefault.jpg", "width": 168, "height": 94}]},
   "title": {"runs": [{"text": "sleepy "}, {"text": "radio"}]},
   "lengthText": {"runs": [{"text": "45:00"}]}
  }}}}
 ]}}]
}`

// LegacyContinuationContract is the older section-list shape whose cursor is
// only exposed as nextContinuationData.
const LegacyContinuationContract = `{
 "contents": {"sectionListRenderer": {"contents": [{"itemSectionRenderer": {"contents": [
  {"gridRenderer": {"items": [{"gridVideoRenderer": {"videoId": "ignored00001"}}]}}
 ]}}], "continuations": [{"nextContinuationData": {"continuation": "EpMDEhhVQ1NNT1FlQkoy", "clickTrackingParams": "CCEQybcCIhMI"}}]}}
}`
